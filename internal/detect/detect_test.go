package detect

import (
	"fmt"
	"testing"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/types"
)

func faqDoc(count int, hasSchema bool) evidence.Evidence {
	doc := `{"schema": {"hasFAQPage": ` + fmt.Sprintf("%t", hasSchema) + `}, "content": {"faqs": [`
	for i := 0; i < count; i++ {
		if i > 0 {
			doc += ","
		}
		doc += fmt.Sprintf(`{"question": "Q%d?", "answer": "A%d"}`, i, i)
	}
	doc += `]}}`
	return evidence.FromString(doc)
}

func altDoc(total, withAlt int) evidence.Evidence {
	return evidence.FromString(fmt.Sprintf(
		`{"media": {"imageCount": %d, "imagesWithAlt": %d}}`, total, withAlt))
}

func TestDetectICPFAQs(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		hasSchema bool
		want      types.DetectionState
	}{
		{"six items with schema", 6, true, types.StateComplete},
		{"exactly five with schema", 5, true, types.StateComplete},
		{"three items no schema", 3, false, types.StateContentNoSchema},
		{"three items with schema", 3, true, types.StatePartial},
		{"nothing", 0, false, types.StateNotFound},
		{"schema but no items", 0, true, types.StateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State("ai_search_readiness.icp_faqs", faqDoc(tt.count, tt.hasSchema))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectImageAltText(t *testing.T) {
	tests := []struct {
		name          string
		total, alt    int
		want          types.DetectionState
	}{
		{"nine of ten", 10, 9, types.StateComplete},
		{"all covered", 4, 4, types.StateComplete},
		{"half covered", 10, 5, types.StatePartial},
		{"token effort", 10, 2, types.StateWeak},
		{"none covered", 10, 0, types.StateNotFound},
		{"no images at all", 0, 0, types.StateComplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State("media_accessibility.image_alt_text", altDoc(tt.total, tt.alt))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectOrganizationSchema(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want types.DetectionState
	}{
		{"valid", `{"schema": {"hasOrganization": true, "organizationErrors": []}}`, types.StateComplete},
		{"invalid", `{"schema": {"hasOrganization": true, "organizationErrors": ["missing logo"]}}`, types.StateSchemaInvalid},
		{"absent", `{"schema": {"hasOrganization": false}}`, types.StateNotFound},
		{"no evidence", ``, types.StateNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := State("trust_authority.organization_schema", evidence.FromString(tt.doc))
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDetectMetaDescriptions(t *testing.T) {
	long := `{"meta": {"description": "A thorough summary of what this page covers, well over the stub threshold."}}`
	if got := State("technical_setup.meta_descriptions", evidence.FromString(long)); got != types.StateComplete {
		t.Errorf("long description: got %s", got)
	}
	stub := `{"meta": {"description": "Welcome."}}`
	if got := State("technical_setup.meta_descriptions", evidence.FromString(stub)); got != types.StateWeak {
		t.Errorf("stub description: got %s", got)
	}
	if got := State("technical_setup.meta_descriptions", evidence.FromString(`{}`)); got != types.StateNotFound {
		t.Errorf("no description: got %s", got)
	}
}

func TestDetectHeadingHierarchy(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want types.DetectionState
	}{
		{"clean outline", `{"headings": {"h1Count": 1, "hierarchyValid": true}}`, types.StateComplete},
		{"broken outline", `{"headings": {"h1Count": 2, "hierarchyValid": false}}`, types.StatePartial},
		{"no headings", `{"headings": {"h1Count": 0}}`, types.StateNotFound},
	}
	for _, tt := range tests {
		if got := State("content_structure.heading_hierarchy", evidence.FromString(tt.doc)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestDetectAuthorBios(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want types.DetectionState
	}{
		{"all have bios", `{"authors": [{"name": "A", "hasBio": true}]}`, types.StateComplete},
		{"some have bios", `{"authors": [{"name": "A", "hasBio": true}, {"name": "B", "hasBio": false}]}`, types.StatePartial},
		{"bylines only", `{"authors": [{"name": "A", "hasBio": false}]}`, types.StateWeak},
		{"no authors", `{}`, types.StateNotFound},
	}
	for _, tt := range tests {
		if got := State("trust_authority.author_bios", evidence.FromString(tt.doc)); got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestStateUnknownKey(t *testing.T) {
	got := State("content_structure.content_depth", evidence.FromString(`{"content": {"wordCount": 9000}}`))
	if got != types.StateNotFound {
		t.Errorf("key without detector: got %s, want not_found", got)
	}
}

func TestStateRecoversFromPanic(t *testing.T) {
	detectors["__panics"] = func(evidence.Evidence) types.DetectionState {
		panic("detector bug")
	}
	defer delete(detectors, "__panics")

	if got := State("__panics", evidence.Evidence{}); got != types.StateNotFound {
		t.Errorf("panicking detector: got %s, want not_found", got)
	}
}

func TestShouldSuppress(t *testing.T) {
	if !ShouldSuppress(types.StateComplete) {
		t.Error("complete must suppress")
	}
	for _, s := range []types.DetectionState{
		types.StateNotFound, types.StatePartial, types.StateContentNoSchema,
		types.StateSchemaInvalid, types.StateWeak, types.StateBlocking,
	} {
		if ShouldSuppress(s) {
			t.Errorf("%s must not suppress", s)
		}
	}
}
