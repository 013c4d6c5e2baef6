package ingest

import (
	"fmt"
	"sort"

	"github.com/dumpsift/dumpsift/core"
	"github.com/dumpsift/dumpsift/storage"
)

// RelationshipDeriver turns a record set into graph nodes and edges.
// Derivation is an injected capability so link-analysis policy can
// evolve without touching ingestion.
type RelationshipDeriver interface {
	Derive(set *core.RecordSet) ([]storage.Node, []storage.Edge)
}

// CommunicationDeriver is the default deriver: one person node per
// observed identifier, CALLED edges between call parties and MESSAGED
// edges between chat parties, weighted by occurrence count.
type CommunicationDeriver struct{}

var _ RelationshipDeriver = (*CommunicationDeriver)(nil)

const (
	nodeKindPerson = "person"
	edgeCalled     = "CALLED"
	edgeMessaged   = "MESSAGED"
)

// Derive builds the communication graph for a record set. Output is
// sorted by ID so repeated runs over the same set produce identical
// upsert batches.
func (d *CommunicationDeriver) Derive(set *core.RecordSet) ([]storage.Node, []storage.Edge) {
	nodes := make(map[string]storage.Node)
	weights := make(map[string]*storage.Edge)

	person := func(identifier *string) string {
		if identifier == nil || *identifier == "" {
			return ""
		}
		id := PersonNodeID(*identifier)
		if _, ok := nodes[id]; !ok {
			nodes[id] = storage.Node{
				ID:    id,
				Kind:  nodeKindPerson,
				Label: *identifier,
				Properties: map[string]any{
					"case_id": set.CaseID,
				},
			}
		}
		return id
	}

	connect := func(from, to, edgeType string) {
		if from == "" || to == "" {
			return
		}
		key := from + "|" + edgeType + "|" + to
		if edge, ok := weights[key]; ok {
			edge.Weight++
			return
		}
		weights[key] = &storage.Edge{
			ID:     edgeID(from, edgeType, to),
			From:   from,
			To:     to,
			Type:   edgeType,
			Weight: 1,
		}
	}

	for _, call := range set.Calls {
		connect(person(call.Caller), person(call.Receiver), edgeCalled)
	}
	for _, chat := range set.Chats {
		connect(person(chat.Sender), person(chat.Receiver), edgeMessaged)
	}
	for _, contact := range set.Contacts {
		for _, phone := range contact.PhoneNumbers {
			id := person(core.StringPtr(phone))
			if node, ok := nodes[id]; ok && contact.Name != "" {
				node.Label = contact.Name
				node.Properties["phone"] = phone
				nodes[id] = node
			}
		}
	}

	nodeList := make([]storage.Node, 0, len(nodes))
	for _, node := range nodes {
		nodeList = append(nodeList, node)
	}
	sort.Slice(nodeList, func(i, j int) bool { return nodeList[i].ID < nodeList[j].ID })

	edgeList := make([]storage.Edge, 0, len(weights))
	for _, edge := range weights {
		edgeList = append(edgeList, *edge)
	}
	sort.Slice(edgeList, func(i, j int) bool { return edgeList[i].ID < edgeList[j].ID })

	return nodeList, edgeList
}

// PersonNodeID returns the stable graph node ID for an identifier,
// shared between relationship derivation and traversal queries.
func PersonNodeID(identifier string) string {
	return "person:" + identifier
}

// edgeID returns a deterministic edge ID so re-derived edges upsert
// over their previous versions.
func edgeID(from, edgeType, to string) string {
	return fmt.Sprintf("%016x", uint64(core.IDFromContent(from, edgeType, to)))
}
