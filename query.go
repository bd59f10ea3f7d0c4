package depot

type Operation int

const (
	OpAnd Operation = iota
	OpOr
	OpNot
)

type compositeNode struct {
	op       Operation
	children []QueryNode
	mask     Signature

	// set when an item could not be resolved; the node then matches nothing
	invalid bool
}

type query struct {
	root     QueryNode
	registry *ComponentRegistry
}

func newQuery(registry *ComponentRegistry) Query {
	return &query{registry: registry}
}

func (n *compositeNode) Evaluate(sig Signature) bool {
	if n.invalid {
		return false
	}
	switch n.op {
	case OpAnd:
		if !sig.Contains(n.mask) {
			return false
		}
		for _, child := range n.children {
			if !child.Evaluate(sig) {
				return false
			}
		}
		return true

	case OpOr:
		if sig.Intersects(n.mask) {
			return true
		}
		for _, child := range n.children {
			if child.Evaluate(sig) {
				return true
			}
		}
		return false

	case OpNot:
		if len(n.children) == 0 {
			return sig.Disjoint(n.mask)
		}
		for _, child := range n.children {
			if child.Evaluate(sig) {
				return false
			}
		}
		return !sig.Intersects(n.mask)
	}
	return false
}

func (q *query) And(items ...interface{}) QueryNode {
	return q.node(OpAnd, items)
}

func (q *query) Or(items ...interface{}) QueryNode {
	return q.node(OpOr, items)
}

func (q *query) Not(items ...interface{}) QueryNode {
	return q.node(OpNot, items)
}

func (q *query) node(op Operation, items []interface{}) QueryNode {
	node := &compositeNode{op: op}
	q.processItems(node, items...)
	if q.root == nil {
		q.root = node
	}
	return node
}

// processItems accepts ComponentType tokens, ComponentIDs, table element
// identities of registered types and nested nodes.
func (q *query) processItems(node *compositeNode, items ...interface{}) {
	for _, item := range items {
		switch v := item.(type) {
		case componentKey:
			id, ok := v.componentID()
			q.mark(node, id, ok)
		case ComponentID:
			q.mark(node, v, true)
		case []ComponentID:
			for _, id := range v {
				q.mark(node, id, true)
			}
		case QueryNode:
			node.children = append(node.children, v)
		case Component:
			id, ok := q.registry.Lookup(v)
			q.mark(node, id, ok)
		default:
			node.invalid = true
		}
	}
}

func (q *query) mark(node *compositeNode, id ComponentID, ok bool) {
	if !ok || int(id) >= q.registry.Size() {
		node.invalid = true
		return
	}
	node.mask.Set(id)
}

// Evaluate matches against the first node built from this query.
func (q *query) Evaluate(sig Signature) bool {
	if q.root == nil {
		return false
	}
	return q.root.Evaluate(sig)
}
