// Package inheritance implements the EXT_node_tsr_inheritance glTF extension:
// a per-node record of which parent TRS channels a joint does not inherit.
package inheritance

import "sort"

const ExtensionName = "EXT_node_tsr_inheritance"

type Channel string

const (
	ChannelRotation    Channel = "rotation"
	ChannelScale       Channel = "scale"
	ChannelTranslation Channel = "translation"
)

var knownChannels = map[Channel]struct{}{
	ChannelRotation:    {},
	ChannelScale:       {},
	ChannelTranslation: {},
}

func (c Channel) Known() bool {
	_, ok := knownChannels[c]
	return ok
}

// Descriptor maps a channel to its "inherited" flag.
// Missing channels are inherited.
type Descriptor map[Channel]bool

func NewDescriptor() Descriptor {
	return make(Descriptor)
}

func (d Descriptor) Inherits(c Channel) bool {
	inherited, ok := d[c]
	return !ok || inherited
}

func (d Descriptor) Exempt(c Channel) Descriptor {
	d[c] = false
	return d
}

// IsTrivial reports whether the descriptor has no exempt channel and
// therefore carries nothing worth writing into a file.
func (d Descriptor) IsTrivial() bool {
	for _, inherited := range d {
		if !inherited {
			return false
		}
	}
	return true
}

// Channels returns exempt channels in lexical order.
func (d Descriptor) Channels() []Channel {
	result := make([]Channel, 0, len(d))
	for c, inherited := range d {
		if !inherited {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result
}
