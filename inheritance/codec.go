package inheritance

import (
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
)

// Block is the raw extension object stored in gltf.Node.Extensions.
type Block map[string]interface{}

func init() {
	gltf.RegisterExtension(ExtensionName, func(data []byte) (interface{}, error) {
		var b Block
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		if b == nil {
			b = make(Block)
		}
		return b, nil
	})
}

// Decode validates a raw extension block and converts it into a Descriptor.
// All unknown keys are reported at once.
func Decode(raw interface{}) (Descriptor, error) {
	var block Block
	switch v := raw.(type) {
	case nil:
		return NewDescriptor(), nil
	case Block:
		block = v
	case map[string]interface{}:
		block = Block(v)
	case map[string]bool:
		block = make(Block, len(v))
		for key, value := range v {
			block[key] = value
		}
	case json.RawMessage:
		return decodeJSON(v)
	case []byte:
		return decodeJSON(v)
	default:
		return nil, errors.Errorf("unexpected %s block type %T", ExtensionName, raw)
	}

	var unknown []string
	for key := range block {
		if !Channel(key).Known() {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) != 0 {
		sort.Strings(unknown)
		return nil, &DecodeError{Channels: unknown, Err: ErrUnsupportedChannel}
	}

	d := NewDescriptor()
	for key, value := range block {
		inherited, ok := value.(bool)
		if !ok {
			return nil, errors.Errorf("channel %q: expected boolean, got %T", key, value)
		}
		d[Channel(key)] = inherited
	}

	if !d.Inherits(ChannelTranslation) {
		return nil, &DecodeError{Err: ErrUnsupportedTranslationExemption}
	}
	return d, nil
}

func decodeJSON(data []byte) (Descriptor, error) {
	var block Block
	if err := json.Unmarshal(data, &block); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal %s block", ExtensionName)
	}
	return Decode(block)
}

// Encode keeps only exempt channels. A trivial descriptor encodes as an
// empty block.
func Encode(d Descriptor) Block {
	b := make(Block)
	for _, c := range d.Channels() {
		b[string(c)] = false
	}
	return b
}

// Emit attaches the encoded descriptor to node and declares the extension
// as used and required on doc. Trivial descriptors are not written.
func Emit(doc *gltf.Document, node *gltf.Node, d Descriptor) bool {
	if d.IsTrivial() {
		return false
	}
	if node.Extensions == nil {
		node.Extensions = make(gltf.Extensions)
	}
	node.Extensions[ExtensionName] = Encode(d)
	Require(doc)
	return true
}

// Require lists the extension in extensionsUsed and extensionsRequired.
func Require(doc *gltf.Document) {
	doc.ExtensionsUsed = appendUnique(doc.ExtensionsUsed, ExtensionName)
	doc.ExtensionsRequired = appendUnique(doc.ExtensionsRequired, ExtensionName)
}

// IsRequired reports whether doc declares the extension as required.
func IsRequired(doc *gltf.Document) bool {
	for _, name := range doc.ExtensionsRequired {
		if name == ExtensionName {
			return true
		}
	}
	return false
}

func appendUnique(list []string, name string) []string {
	for _, s := range list {
		if s == name {
			return list
		}
	}
	return append(list, name)
}

// Lookup decodes the block attached to node, if any.
func Lookup(node *gltf.Node) (Descriptor, bool, error) {
	if node == nil || node.Extensions == nil {
		return nil, false, nil
	}
	raw, ok := node.Extensions[ExtensionName]
	if !ok {
		return nil, false, nil
	}
	d, err := Decode(raw)
	if err != nil {
		return nil, true, WithNode(err, node.Name)
	}
	return d, true, nil
}

type NodeDescriptor struct {
	Node       uint32     `json:"node"`
	Name       string     `json:"name"`
	Descriptor Descriptor `json:"descriptor"`
}

// Scan decodes every block in doc, in node order.
func Scan(doc *gltf.Document) ([]NodeDescriptor, error) {
	result := make([]NodeDescriptor, 0)
	for i, node := range doc.Nodes {
		d, ok, err := Lookup(node)
		if err != nil {
			return nil, err
		}
		if ok {
			result = append(result, NodeDescriptor{Node: uint32(i), Name: node.Name, Descriptor: d})
		}
	}
	return result, nil
}
