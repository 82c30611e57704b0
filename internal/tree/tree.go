// Package tree models the read-only decision trees that drive a
// classification session.
//
// A tree is a graph of question nodes and leaf nodes loaded from JSON.
// Instances are validated against an embedded JSON Schema before decoding,
// then checked for referential integrity: the start node must exist and every
// answer must point at a known node. Once loaded a tree is never mutated.
package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"tessella/internal/proof"
)

// Tree is one complete decision tree.
type Tree struct {
	// ID identifies the tree (for example "wallpaper" or "frieze").
	ID string `json:"id"`

	// Name is the human-readable title shown in the UI.
	Name string `json:"name"`

	// Start is the node id classification begins at.
	Start string `json:"start"`

	// Nodes maps node ids to their content.
	Nodes map[string]Node `json:"nodes"`
}

// Node is either a question or a leaf; exactly one field is set.
type Node struct {
	Question *Question `json:"question,omitempty"`
	Leaf     *Leaf     `json:"leaf,omitempty"`
}

// Question is a decision step.
type Question struct {
	// Prompt is the question text.
	Prompt string `json:"prompt"`

	// Notes are optional hints displayed under the prompt.
	Notes []string `json:"notes,omitempty"`

	// Proof is the default proof type required to answer, one of "none",
	// "rotation", "mirror", "glide". Answers may override it.
	Proof string `json:"proof,omitempty"`

	// UnitCellGuides requests the unit-cell parallelogram overlay while
	// this question is active.
	UnitCellGuides bool `json:"unit_cell_guides,omitempty"`

	// Answers are the selectable choices.
	Answers []Answer `json:"answers"`
}

// Answer is one selectable choice on a question.
type Answer struct {
	// Key identifies the answer within its question.
	Key string `json:"key"`

	// Label is the text on the answer button.
	Label string `json:"label"`

	// Next is the id of the node this answer leads to.
	Next string `json:"next"`

	// Proof optionally overrides the question's default proof type.
	Proof string `json:"proof,omitempty"`

	// AngleDeg optionally overrides the base rotation angle for rotation
	// proofs.
	AngleDeg float64 `json:"angle_deg,omitempty"`
}

// Leaf is a terminal classification result.
type Leaf struct {
	// Group is the symmetry group code, for example "p4g".
	Group string `json:"group"`

	// Description optionally explains the group.
	Description string `json:"description,omitempty"`
}

// Answer returns the answer with the given key, or nil.
func (q *Question) Answer(key string) *Answer {
	for i := range q.Answers {
		if q.Answers[i].Key == key {
			return &q.Answers[i]
		}
	}
	return nil
}

// ResolveProof determines the effective proof requirement for an answer: the
// answer-level override if present, else the question default, else none.
// The returned angle is the answer's rotation override, 0 when unset.
func ResolveProof(q *Question, a *Answer) (proof.Kind, float64) {
	kind := proof.ParseKind(q.Proof)
	angle := 0.0
	if a != nil {
		if a.Proof != "" {
			kind = proof.ParseKind(a.Proof)
		}
		angle = a.AngleDeg
	}
	if kind != proof.KindRotation {
		angle = 0
	}
	return kind, angle
}

// Load validates data against the tree schema, decodes it, and verifies the
// graph is referentially closed.
func Load(data []byte) (*Tree, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var t Tree
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tree: %w", err)
	}
	if err := t.check(); err != nil {
		return nil, err
	}
	return &t, nil
}

// validate checks raw JSON against the embedded schema.
func validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse tree: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("tree schema: %w", err)
	}
	return nil
}

// check verifies structural integrity beyond what the schema can express.
func (t *Tree) check() error {
	if _, ok := t.Nodes[t.Start]; !ok {
		return fmt.Errorf("tree %s: start node %q not found", t.ID, t.Start)
	}
	for id, n := range t.Nodes {
		switch {
		case n.Question != nil && n.Leaf != nil:
			return fmt.Errorf("tree %s: node %q is both question and leaf", t.ID, id)
		case n.Question == nil && n.Leaf == nil:
			return fmt.Errorf("tree %s: node %q is neither question nor leaf", t.ID, id)
		case n.Question != nil:
			if len(n.Question.Answers) == 0 {
				return fmt.Errorf("tree %s: question %q has no answers", t.ID, id)
			}
			seen := make(map[string]bool, len(n.Question.Answers))
			for _, a := range n.Question.Answers {
				if seen[a.Key] {
					return fmt.Errorf("tree %s: question %q repeats answer key %q", t.ID, id, a.Key)
				}
				seen[a.Key] = true
				if _, ok := t.Nodes[a.Next]; !ok {
					return fmt.Errorf("tree %s: answer %s/%s points at unknown node %q", t.ID, id, a.Key, a.Next)
				}
			}
		}
	}
	return nil
}

func compileSchema(name string, data []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}
