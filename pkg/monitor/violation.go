package monitor

import (
	"encoding/json"
	"sort"

	"github.com/gitrdm/gokanlogic/pkg/predicate"
	"github.com/gitrdm/gokanlogic/pkg/property"
)

// Violation is a recorded failure of one property instance: it reached
// a non-accepting trap state. It carries the instance's full history
// so the violation file is self-contained evidence, not just a
// timestamp.
type Violation struct {
	PropertyName  string
	ViolationTime string
	InitialFrame  string
	EgoID         string
	Binding       map[string]*property.ConcreteEntity
	NameHistory   []property.NameRecord
	DataHistory   []property.DataRecord
}

// MarshalJSON produces the wire format: entity_mapping maps symbolic
// entity name to the bound node ID (or null), name_history and
// data_history are both arrays of [frame, map] pairs rather than maps
// themselves, so frame order is preserved without relying on object
// key ordering.
func (v *Violation) MarshalJSON() ([]byte, error) {
	entityMapping := make(map[string]*string, len(v.Binding))
	for name, ce := range v.Binding {
		if ce == nil {
			entityMapping[name] = nil
			continue
		}
		id := ce.EntityID
		entityMapping[name] = &id
	}

	nameHistory := make([]namePair, len(v.NameHistory))
	for i, rec := range v.NameHistory {
		nameHistory[i] = namePair{rec.Frame, rec.Names}
	}

	dataHistory := make([]dataPair, len(v.DataHistory))
	for i, rec := range v.DataHistory {
		dataHistory[i] = dataPair{rec.Frame, projectValues(rec.Values)}
	}

	return json.Marshal(wireViolation{
		PropertyName:  v.PropertyName,
		ViolationTime: v.ViolationTime,
		InitialFrame:  v.InitialFrame,
		EgoID:         v.EgoID,
		EntityMapping: entityMapping,
		NameHistory:   nameHistory,
		DataHistory:   dataHistory,
	})
}

type wireViolation struct {
	PropertyName  string             `json:"property_name"`
	ViolationTime string             `json:"violation_time"`
	InitialFrame  string             `json:"initial_frame"`
	EgoID         string             `json:"ego_id"`
	EntityMapping map[string]*string `json:"entity_mapping"`
	NameHistory   []namePair         `json:"name_history"`
	DataHistory   []dataPair         `json:"data_history"`
}

// namePair and dataPair marshal as a two-element JSON array via
// MarshalJSON rather than a struct, matching the [frame, map] shape.
type namePair struct {
	frame string
	names map[string]*string
}

func (p namePair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.frame, p.names})
}

type dataPair struct {
	frame  string
	values map[string]interface{}
}

func (p dataPair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]interface{}{p.frame, p.values})
}

// projectValues converts a frame's predicate.Value map into a
// JSON-friendly shape: bool/int pass through, sets become a sorted ID
// array, and Unbound projects to null (a violation file records the
// fact that a symbol was undecided, not why).
func projectValues(values map[string]predicate.Value) map[string]interface{} {
	out := make(map[string]interface{}, len(values))
	for sym, v := range values {
		switch v.Kind {
		case predicate.KindBool:
			out[sym] = v.Bool
		case predicate.KindInt:
			out[sym] = v.Int
		case predicate.KindSet:
			ids := make([]string, 0, len(v.Set))
			for id := range v.Set {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			out[sym] = ids
		case predicate.KindUnbound:
			out[sym] = nil
		}
	}
	return out
}
