package report

import (
	"encoding/json"
	"testing"
)

func TestItem_UnmarshalString(t *testing.T) {
	var it Item
	if err := json.Unmarshal([]byte(`"shows initiative under pressure"`), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Kind != ItemRemark {
		t.Errorf("Kind = %d, want ItemRemark", it.Kind)
	}
	if it.Remark != "shows initiative under pressure" {
		t.Errorf("Remark = %q", it.Remark)
	}
}

func TestItem_UnmarshalObject(t *testing.T) {
	raw := `{"trait":"courage","observation":"acts quickly","suggestion":"pause before committing"}`
	var it Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if it.Kind != ItemTrait {
		t.Errorf("Kind = %d, want ItemTrait", it.Kind)
	}
	if it.Trait != "courage" || it.Observation != "acts quickly" || it.Suggestion != "pause before committing" {
		t.Errorf("item = %+v", it)
	}
}

func TestItem_UnmarshalRejectsOther(t *testing.T) {
	tests := []string{`42`, `["a"]`, `{"observation":"no trait"}`}
	for _, raw := range tests {
		var it Item
		if err := json.Unmarshal([]byte(raw), &it); err == nil {
			t.Errorf("unmarshal(%s): expected error", raw)
		}
	}
}

func TestReport_MixedItems(t *testing.T) {
	raw := `{
		"session_id": "sess-9",
		"summary": "balanced profile",
		"items": [
			"responds well to ambiguity",
			{"trait": "empathy", "observation": "considers others first"}
		]
	}`

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.SessionID != "sess-9" || len(r.Items) != 2 {
		t.Fatalf("report = %+v", r)
	}
	if r.Items[0].Kind != ItemRemark || r.Items[1].Kind != ItemTrait {
		t.Errorf("items = %+v", r.Items)
	}

	// Round-trips in the original wire shape.
	out, err := json.Marshal(r.Items)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["responds well to ambiguity",{"trait":"empathy","observation":"considers others first"}]`
	if string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}
}
