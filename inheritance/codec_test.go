package inheritance

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/qmuntal/gltf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decodeTests = []struct {
	name     string
	in       string
	rotation bool
	scale    bool
	err      error
}{
	{"empty", `{}`, true, true, nil},
	{"rotation", `{"rotation": false}`, false, true, nil},
	{"scale", `{"scale": false}`, true, false, nil},
	{"both", `{"rotation": false, "scale": false}`, false, false, nil},
	{"explicit true", `{"rotation": true, "scale": true}`, true, true, nil},
	{"translation true", `{"translation": true}`, true, true, nil},
	{"translation false", `{"translation": false}`, true, true, ErrUnsupportedTranslationExemption},
	{"bogus", `{"bogus": false}`, true, true, ErrUnsupportedChannel},
	{"bogus with valid", `{"rotation": false, "bogus": true}`, true, true, ErrUnsupportedChannel},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		t.Run(test.name, func(t *testing.T) {
			d, err := Decode(json.RawMessage(test.in))
			if test.err != nil {
				assert.True(t, errors.Is(err, test.err), "Decode(%s) error = %v; expected %v", test.in, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.rotation, d.Inherits(ChannelRotation))
			assert.Equal(t, test.scale, d.Inherits(ChannelScale))
			assert.True(t, d.Inherits(ChannelTranslation))
		})
	}
}

func TestDecodeTranslationTrueEqualsOmission(t *testing.T) {
	withKey, err := Decode(Block{"translation": true, "rotation": false})
	require.NoError(t, err)
	without, err := Decode(Block{"rotation": false})
	require.NoError(t, err)

	assert.Equal(t, Encode(without), Encode(withKey))
	assert.Equal(t, without.Channels(), withKey.Channels())
}

func TestDecodeReportsAllUnknownChannels(t *testing.T) {
	_, err := Decode(Block{"zeta": false, "bogus": false, "scale": false})

	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, []string{"bogus", "zeta"}, de.Channels)
	assert.Contains(t, err.Error(), "bogus,zeta")
}

func TestDecodeRejectsNonBoolean(t *testing.T) {
	_, err := Decode(json.RawMessage(`{"rotation": "no"}`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "rotation")
}

func TestEncodeKeepsOnlyExemptChannels(t *testing.T) {
	d := Descriptor{ChannelRotation: false, ChannelScale: true}
	assert.Equal(t, Block{"rotation": false}, Encode(d))

	assert.Empty(t, Encode(NewDescriptor()))
	assert.Empty(t, Encode(Descriptor{ChannelScale: true}))
}

func TestEmitSkipsTrivial(t *testing.T) {
	doc := gltf.NewDocument()
	node := &gltf.Node{Name: "bone"}

	assert.False(t, Emit(doc, node, NewDescriptor()))
	assert.Nil(t, node.Extensions)
	assert.Empty(t, doc.ExtensionsRequired)

	assert.True(t, Emit(doc, node, NewDescriptor().Exempt(ChannelScale)))
	assert.True(t, Emit(doc, &gltf.Node{}, NewDescriptor().Exempt(ChannelRotation)))
	assert.Equal(t, []string{ExtensionName}, doc.ExtensionsRequired)
	assert.Equal(t, []string{ExtensionName}, doc.ExtensionsUsed)
	assert.True(t, IsRequired(doc))
}

func TestDocumentRoundTrip(t *testing.T) {
	doc := gltf.NewDocument()
	plain := &gltf.Node{Name: "plain"}
	constrained := &gltf.Node{Name: "constrained"}
	empty := &gltf.Node{Name: "empty", Extensions: gltf.Extensions{ExtensionName: Block{}}}
	doc.Nodes = append(doc.Nodes, plain, constrained, empty)
	Emit(doc, constrained, Descriptor{ChannelRotation: false, ChannelScale: false})

	var buf bytes.Buffer
	require.NoError(t, gltf.NewEncoder(&buf).Encode(doc))
	assert.Contains(t, buf.String(), ExtensionName)

	var decoded gltf.Document
	require.NoError(t, gltf.NewDecoder(&buf).Decode(&decoded))
	require.Len(t, decoded.Nodes, 3)
	assert.True(t, IsRequired(&decoded))

	_, ok, err := Lookup(decoded.Nodes[0])
	require.NoError(t, err)
	assert.False(t, ok)

	d, ok, err := Lookup(decoded.Nodes[1])
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []Channel{ChannelRotation, ChannelScale}, d.Channels())

	d, ok, err = Lookup(decoded.Nodes[2])
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, d.IsTrivial())

	found, err := Scan(&decoded)
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, "constrained", found[0].Name)
	assert.Equal(t, uint32(1), found[0].Node)
}

func TestLookupNamesNode(t *testing.T) {
	node := &gltf.Node{
		Name:       "forearm",
		Extensions: gltf.Extensions{ExtensionName: json.RawMessage(`{"translation": false}`)},
	}
	_, ok, err := Lookup(node)
	assert.True(t, ok)
	assert.True(t, errors.Is(err, ErrUnsupportedTranslationExemption))
	assert.Contains(t, err.Error(), `"forearm"`)
}
