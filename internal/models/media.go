package models

import (
	"encoding/json"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// MediaType classifies an uploaded or linked asset.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

var videoExtension = regexp.MustCompile(`(?i)\.(mp4|webm|ogg)$`)

// ClassifyMedia returns MediaVideo for URLs ending in mp4, webm or ogg, MediaImage otherwise.
func ClassifyMedia(url string) MediaType {
	if videoExtension.MatchString(url) {
		return MediaVideo
	}
	return MediaImage
}

// MediaAsset is an image or video referenced by events, team members, gallery and hero content.
//
// Older documents store bare URL strings instead of objects. Decoding such a value keeps it
// marked as legacy (Type stays empty) and encoding writes it back as a bare string, so legacy
// data only changes shape when Normalize is called.
type MediaAsset struct {
	URL      string    `json:"url" bson:"url"`
	Type     MediaType `json:"type" bson:"type"`
	PublicID string    `json:"publicId,omitempty" bson:"publicId,omitempty"`

	legacy bool
}

// NewMediaAsset builds an asset from a raw URL, classifying it by extension.
func NewMediaAsset(url string) MediaAsset {
	return MediaAsset{URL: url, Type: ClassifyMedia(url)}
}

// IsSet reports whether the asset points somewhere.
func (m MediaAsset) IsSet() bool { return m.URL != "" }

// IsLegacy reports whether the asset was decoded from a bare string and not yet normalized.
func (m MediaAsset) IsLegacy() bool { return m.legacy }

// Normalize returns the asset in object form. Bare strings are classified by extension;
// objects without a type default to image. Normalized assets are returned unchanged.
func (m MediaAsset) Normalize() MediaAsset {
	if m.legacy {
		return MediaAsset{URL: m.URL, Type: ClassifyMedia(m.URL), PublicID: m.PublicID}
	}
	if m.Type == "" {
		m.Type = MediaImage
	}
	return m
}

// mediaObject has the same fields as MediaAsset without its codec methods.
type mediaObject struct {
	URL      string    `json:"url" bson:"url"`
	Type     MediaType `json:"type" bson:"type"`
	PublicID string    `json:"publicId,omitempty" bson:"publicId,omitempty"`
}

func (m MediaAsset) MarshalJSON() ([]byte, error) {
	if m.legacy {
		return json.Marshal(m.URL)
	}
	return json.Marshal(mediaObject{URL: m.URL, Type: m.Type, PublicID: m.PublicID})
}

func (m *MediaAsset) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MediaAsset{URL: s, legacy: true}
		return nil
	}
	var obj mediaObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*m = MediaAsset{URL: obj.URL, Type: obj.Type, PublicID: obj.PublicID}
	return nil
}

func (m MediaAsset) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if m.legacy {
		return bson.MarshalValue(m.URL)
	}
	return bson.MarshalValue(mediaObject{URL: m.URL, Type: m.Type, PublicID: m.PublicID})
}

func (m *MediaAsset) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.String:
		*m = MediaAsset{URL: raw.StringValue(), legacy: true}
		return nil
	case bsontype.EmbeddedDocument:
		var obj mediaObject
		if err := raw.Unmarshal(&obj); err != nil {
			return err
		}
		*m = MediaAsset{URL: obj.URL, Type: obj.Type, PublicID: obj.PublicID}
		return nil
	case bsontype.Null, bsontype.Undefined:
		*m = MediaAsset{}
		return nil
	default:
		return fmt.Errorf("media asset: unsupported bson type %s", t)
	}
}

// NormalizeMediaPtr normalizes an optional asset. Nil and empty assets become nil.
func NormalizeMediaPtr(m *MediaAsset) *MediaAsset {
	if m == nil || !m.IsSet() {
		return nil
	}
	n := m.Normalize()
	return &n
}

// NormalizeMediaList normalizes every element and drops entries without a URL.
func NormalizeMediaList(list []MediaAsset) []MediaAsset {
	out := make([]MediaAsset, 0, len(list))
	for _, m := range list {
		if !m.IsSet() {
			continue
		}
		out = append(out, m.Normalize())
	}
	return out
}
