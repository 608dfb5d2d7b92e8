package dashboard

import (
	"bytes"
	"encoding/json"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/layout"
)

// Payload is the decoded data behind one component. Each component type
// has its own concrete payload; the layout only looks at HasData.
type Payload interface {
	ComponentType() layout.ComponentType
	HasData() bool
}

// Metric is one key figure.
type Metric struct {
	Label  string  `json:"label"`
	Value  string  `json:"value"`
	Change float64 `json:"change,omitempty"`
}

// MetricsPayload backs a metrics component.
type MetricsPayload struct {
	Metrics []Metric `json:"metrics"`
}

// TablePayload backs a data table.
type TablePayload struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Image is one rendered chart or picture.
type Image struct {
	Src     string `json:"src"`
	Caption string `json:"caption,omitempty"`
}

// ImagePayload backs an image gallery.
type ImagePayload struct {
	Images []Image `json:"images"`
}

// Insight is one generated finding.
type Insight struct {
	Title    string `json:"title"`
	Text     string `json:"text"`
	Severity string `json:"severity,omitempty"`
}

// InsightsPayload backs an insights list.
type InsightsPayload struct {
	Insights []Insight `json:"insights"`
}

// File is one downloadable export.
type File struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// FileDownloadPayload backs a file download area.
type FileDownloadPayload struct {
	Files []File `json:"files"`
}

func (MetricsPayload) ComponentType() layout.ComponentType      { return layout.TypeMetrics }
func (TablePayload) ComponentType() layout.ComponentType        { return layout.TypeTable }
func (ImagePayload) ComponentType() layout.ComponentType        { return layout.TypeImage }
func (InsightsPayload) ComponentType() layout.ComponentType     { return layout.TypeInsights }
func (FileDownloadPayload) ComponentType() layout.ComponentType { return layout.TypeFileDownload }

func (p MetricsPayload) HasData() bool      { return len(p.Metrics) > 0 }
func (p TablePayload) HasData() bool        { return len(p.Rows) > 0 }
func (p ImagePayload) HasData() bool        { return len(p.Images) > 0 }
func (p InsightsPayload) HasData() bool     { return len(p.Insights) > 0 }
func (p FileDownloadPayload) HasData() bool { return len(p.Files) > 0 }

// DecodePayload decodes raw backend data for a component type. Empty or
// null data decodes to an empty payload. Unknown fields are rejected so
// schema drift surfaces at the boundary.
func DecodePayload(t layout.ComponentType, raw json.RawMessage) (Payload, error) {
	var p Payload
	switch t {
	case layout.TypeMetrics:
		p = &MetricsPayload{}
	case layout.TypeTable:
		p = &TablePayload{}
	case layout.TypeImage:
		p = &ImagePayload{}
	case layout.TypeInsights:
		p = &InsightsPayload{}
	case layout.TypeFileDownload:
		p = &FileDownloadPayload{}
	default:
		return nil, errors.New(errors.ErrCodeInvalidItem, "unknown component type %q", t)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.DisallowUnknownFields()
		if err := dec.Decode(p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s payload", t)
		}
	}
	return deref(p), nil
}

func deref(p Payload) Payload {
	switch v := p.(type) {
	case *MetricsPayload:
		return *v
	case *TablePayload:
		return *v
	case *ImagePayload:
		return *v
	case *InsightsPayload:
		return *v
	case *FileDownloadPayload:
		return *v
	}
	return p
}

// Component is the part of a component the layout consumes.
type Component struct {
	ID      string               `json:"id"`
	Type    layout.ComponentType `json:"type"`
	HasData bool                 `json:"hasData"`
}

// Summary describes the component behind item given its payload. A nil
// payload means the backend had no data yet.
func Summary(item layout.Item, p Payload) Component {
	return Component{
		ID:      item.ID,
		Type:    item.Type,
		HasData: p != nil && p.HasData(),
	}
}

// Components summarizes items given the raw backend data keyed by item
// ID. An item with no entry in payloads has no data.
func Components(items []layout.Item, payloads map[string]json.RawMessage) ([]Component, error) {
	out := make([]Component, 0, len(items))
	for _, it := range items {
		var p Payload
		if raw, ok := payloads[it.ID]; ok {
			var err error
			if p, err = DecodePayload(it.Type, raw); err != nil {
				return nil, errors.Wrap(errors.GetCode(err), err, "component %s: %s", it.ID, errors.UserMessage(err)).On("i")
			}
		}
		out = append(out, Summary(it, p))
	}
	return out, nil
}

// FilterEmpty splits items into those whose component has data and those
// that would render empty, such as before an export. Order is preserved.
func FilterEmpty(items []layout.Item, payloads map[string]json.RawMessage) (included, excluded []layout.Item, err error) {
	comps, err := Components(items, payloads)
	if err != nil {
		return nil, nil, err
	}
	included = []layout.Item{}
	excluded = []layout.Item{}
	for i, c := range comps {
		if c.HasData {
			included = append(included, items[i])
		} else {
			excluded = append(excluded, items[i])
		}
	}
	return included, excluded, nil
}
