package youtube

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rubpy/crawly"
)

//////////////////////////////////////////////////

// Platform is the (lower-cased) name of the only platform references can be
// resolved against.
const Platform = "youtube"

type Kind uint

const (
	KindUnknown Kind = iota
	KindRawID
	KindHumanHandle
	KindVideoDerived
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "Unknown"
	case KindRawID:
		return "RawID"
	case KindHumanHandle:
		return "HumanHandle"
	case KindVideoDerived:
		return "VideoDerived"
	}

	return ""
}

//////////////////////////////////////////////////

// Reference identifies a channel, possibly indirectly (through one of its
// videos), on some platform. A Reference carrying a Channel record has been
// validated by a remote lookup; References are never modified, normalization
// produces a new one.
type Reference struct {
	value    string
	kind     Kind
	platform string

	channel *Channel
}

var _ crawly.Handle = Reference{}

func RawID(channelID string) Reference {
	return Reference{value: channelID, kind: KindRawID, platform: Platform}
}

// HumanHandle returns a handle reference; a leading "@" is dropped.
func HumanHandle(handle string) Reference {
	return Reference{value: strings.TrimPrefix(handle, "@"), kind: KindHumanHandle, platform: Platform}
}

func VideoID(videoID string) Reference {
	return Reference{value: videoID, kind: KindVideoDerived, platform: Platform}
}

func UnknownReference(value string, platform string) Reference {
	return Reference{value: value, kind: KindUnknown, platform: strings.ToLower(platform)}
}

// validatedReference returns the canonical reference of a channel confirmed
// by a remote lookup.
func validatedReference(ch *Channel) Reference {
	c := *ch

	return Reference{value: c.ID, kind: KindRawID, platform: Platform, channel: &c}
}

func (r Reference) Value() string    { return r.value }
func (r Reference) Kind() Kind       { return r.kind }
func (r Reference) Platform() string { return r.platform }

// Validated reports whether the reference is backed by a remote lookup.
func (r Reference) Validated() bool { return r.channel != nil }

// Channel returns a copy of the remote record backing the reference.
func (r Reference) Channel() (Channel, bool) {
	if r.channel == nil {
		return Channel{}, false
	}

	return *r.channel, true
}

// Bare returns the reference without its remote record.
func (r Reference) Bare() Reference {
	r.channel = nil
	return r
}

func (r Reference) Valid() bool {
	return r.value != ""
}

func (r Reference) Equal(handle crawly.Handle) bool {
	if rr, ok := handle.(Reference); ok {
		return rr.kind == r.kind && rr.value == r.value && rr.platform == r.platform
	}

	return false
}

func (r Reference) String() string {
	var s strings.Builder
	s.WriteRune('{')
	s.WriteString(r.kind.String())
	s.WriteString(":")
	s.WriteString(r.platform)
	s.WriteString(":")
	s.WriteString(strconv.Quote(r.value))
	if r.channel != nil {
		s.WriteString(":validated")
	}
	s.WriteRune('}')

	return s.String()
}

//////////////////////////////////////////////////

var DistinctChannels = errors.New("references name distinct channels")

// MergeReferences reconciles two references to what is supposed to be the
// same channel. A validated reference wins over an unvalidated one; when both
// are validated their records are merged with MergeChannels (a as primary).
func MergeReferences(a, b Reference) (Reference, []FieldConflict, error) {
	switch {
	case a.Validated() && b.Validated():
		if a.value != b.value {
			return Reference{}, nil, DistinctChannels
		}

		merged, conflicts := MergeChannels(*a.channel, *b.channel)
		return validatedReference(&merged), conflicts, nil

	case a.Validated():
		return a, nil, nil

	case b.Validated():
		return b, nil, nil
	}

	if a.kind == KindUnknown && b.kind != KindUnknown {
		return b, nil, nil
	}

	return a, nil, nil
}
