package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/vantagedata/dashlayout/pkg/errors"
	"github.com/vantagedata/dashlayout/pkg/layout"
)

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name    string
		typ     layout.ComponentType
		raw     string
		hasData bool
	}{
		{"metrics", layout.TypeMetrics, `{"metrics":[{"label":"Revenue","value":"1.2M","change":0.12}]}`, true},
		{"table", layout.TypeTable, `{"columns":["a","b"],"rows":[["1","2"]]}`, true},
		{"empty table", layout.TypeTable, `{"columns":["a"],"rows":[]}`, false},
		{"image", layout.TypeImage, `{"images":[{"src":"chart.png"}]}`, true},
		{"insights", layout.TypeInsights, `{"insights":[{"title":"Churn","text":"up 3%"}]}`, true},
		{"files", layout.TypeFileDownload, `{"files":[{"name":"report.pdf","path":"/tmp/report.pdf","size":1024}]}`, true},
		{"null", layout.TypeImage, `null`, false},
		{"empty", layout.TypeInsights, ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePayload(tt.typ, json.RawMessage(tt.raw))
			if err != nil {
				t.Fatalf("DecodePayload: %v", err)
			}
			if p.ComponentType() != tt.typ {
				t.Errorf("ComponentType() = %s, want %s", p.ComponentType(), tt.typ)
			}
			if p.HasData() != tt.hasData {
				t.Errorf("HasData() = %v, want %v", p.HasData(), tt.hasData)
			}
		})
	}
}

func TestDecodePayloadConcreteType(t *testing.T) {
	p, err := DecodePayload(layout.TypeMetrics, json.RawMessage(`{"metrics":[{"label":"Users","value":"42"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	m, ok := p.(MetricsPayload)
	if !ok {
		t.Fatalf("payload is %T, want MetricsPayload", p)
	}
	if m.Metrics[0].Label != "Users" {
		t.Errorf("label = %q", m.Metrics[0].Label)
	}
}

func TestDecodePayloadErrors(t *testing.T) {
	if _, err := DecodePayload("chart", nil); !errors.Is(err, errors.ErrCodeInvalidItem) {
		t.Errorf("unknown type = %v", err)
	}
	if _, err := DecodePayload(layout.TypeTable, json.RawMessage(`{"rows":"nope"}`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("bad schema = %v", err)
	}
	if _, err := DecodePayload(layout.TypeTable, json.RawMessage(`{"cells":[]}`)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("unknown field = %v", err)
	}
}

func TestSummary(t *testing.T) {
	item := layout.NewItem(layout.TypeImage, 2)

	got := Summary(item, ImagePayload{Images: []Image{{Src: "a.png"}}})
	want := Component{ID: "image-2", Type: layout.TypeImage, HasData: true}
	if got != want {
		t.Errorf("Summary() = %+v, want %+v", got, want)
	}
	if Summary(item, nil).HasData {
		t.Error("Summary(nil payload) should have no data")
	}
}

func TestComponents(t *testing.T) {
	items := []layout.Item{
		layout.NewItem(layout.TypeMetrics, 0),
		layout.NewItem(layout.TypeTable, 0),
		layout.NewItem(layout.TypeImage, 0),
	}
	payloads := map[string]json.RawMessage{
		"metrics-0": json.RawMessage(`{"metrics":[{"label":"Users","value":"42"}]}`),
		"table-0":   json.RawMessage(`{"columns":["a"],"rows":[]}`),
	}

	got, err := Components(items, payloads)
	if err != nil {
		t.Fatal(err)
	}
	want := []Component{
		{ID: "metrics-0", Type: layout.TypeMetrics, HasData: true},
		{ID: "table-0", Type: layout.TypeTable, HasData: false},
		{ID: "image-0", Type: layout.TypeImage, HasData: false},
	}
	if len(got) != len(want) {
		t.Fatalf("Components() = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Components()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestComponentsBadPayload(t *testing.T) {
	items := []layout.Item{layout.NewItem(layout.TypeTable, 1)}
	_, err := Components(items, map[string]json.RawMessage{"table-1": json.RawMessage(`{"rows":"nope"}`)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("Components() = %v, want INVALID_INPUT", err)
	}
	if errors.GetField(err) != "i" {
		t.Errorf("field = %q, want i", errors.GetField(err))
	}
}

func TestFilterEmpty(t *testing.T) {
	items := layout.Default().Items
	payloads := map[string]json.RawMessage{}
	for _, it := range items {
		if it.Type == layout.TypeMetrics || it.Type == layout.TypeInsights {
			payloads[it.ID] = json.RawMessage(`null`)
		}
	}
	payloads["metrics-0"] = json.RawMessage(`{"metrics":[{"label":"Users","value":"42"}]}`)

	included, excluded, err := FilterEmpty(items, payloads)
	if err != nil {
		t.Fatal(err)
	}
	if len(included) != 1 || included[0].ID != "metrics-0" {
		t.Errorf("included = %+v, want only metrics-0", included)
	}
	if len(excluded) != len(items)-1 {
		t.Errorf("excluded %d items, want %d", len(excluded), len(items)-1)
	}
	for i := 1; i < len(excluded); i++ {
		if indexOf(items, excluded[i-1].ID) > indexOf(items, excluded[i].ID) {
			t.Errorf("excluded order changed: %s before %s", excluded[i-1].ID, excluded[i].ID)
		}
	}
}

func indexOf(items []layout.Item, id string) int {
	for i, it := range items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
