package render

import (
	"fmt"

	"github.com/sitewell/beacon/internal/evidence"
	"github.com/sitewell/beacon/internal/fill"
	"github.com/sitewell/beacon/internal/playbook"
	"github.com/sitewell/beacon/internal/types"
	"github.com/tidwall/sjson"
)

// buildPlaceholderContext extends the base context with the per-entry
// score facts.
func buildPlaceholderContext(ev evidence.Evidence, rctx *types.RenderContext, score, threshold float64) *fill.Context {
	pctx := PlaceholderContext(ev, rctx)
	pctx.Values["score"] = int(score)
	pctx.Values["threshold"] = int(threshold)
	pctx.Values["gap"] = int(threshold - score)
	return pctx
}

// PlaceholderContext merges the fact sources templates draw from: caller
// context (lowest precedence), scan/company facts, and evidence-derived
// facts. Keys are only set when a real value exists, so absent facts
// fall through to the global fallback table instead of substituting
// empty strings everywhere. The legacy adapter reuses this when
// re-rendering stored rows against current evidence.
func PlaceholderContext(ev evidence.Evidence, rctx *types.RenderContext) *fill.Context {
	values := make(map[string]any)

	// Caller-supplied free-form context first; computed facts win on collision.
	if rctx != nil {
		for k, v := range rctx.Extra {
			values[k] = v
		}
		setIf(values, "company_name", rctx.CompanyName)
		setIf(values, "company", rctx.CompanyName)
		setIf(values, "brand_name", rctx.CompanyName)
		setIf(values, "domain", rctx.Domain)
		setIf(values, "site_url", rctx.SiteURL)
		setIf(values, "industry", rctx.Industry)
		if len(rctx.TargetRoles) > 0 {
			values["target_roles"] = rctx.TargetRoles
			values["target_audience"] = rctx.TargetRoles
		}
	}

	pageURL := ev.PageURL()
	if pageURL == "" && rctx != nil {
		pageURL = rctx.SiteURL
	}
	setIf(values, "page_url", pageURL)

	// Evidence-derived facts
	if n := ev.FAQCount(); n > 0 {
		values["faq_count"] = n
	}
	setIf(values, "faq_page_url", ev.FAQPageLink())
	if stats := ev.ImageAltStats(); stats.ImageCount > 0 {
		values["image_count"] = stats.ImageCount
		values["images_missing_alt"] = stats.ImageCount - stats.ImagesWithAlt
		values["alt_coverage"] = fmt.Sprintf("%d%%", int(stats.Coverage()*100))
	}
	if schemaTypes := ev.SchemaTypes(); len(schemaTypes) > 0 {
		values["schema_types_found"] = schemaTypes
	}
	if h := ev.HeadingInfo(); h.H1Count > 0 {
		values["h1_count"] = h.H1Count
	}
	if wc := ev.WordCount(); wc > 0 {
		values["word_count"] = wc
	}
	if a := ev.AuthorBioStats(); a.AuthorCount > 0 {
		values["author_count"] = a.AuthorCount
	}
	setIf(values, "last_updated", ev.LastModified())
	setIf(values, "meta_description", ev.Meta().Description)
	setIf(values, "sitemap_url", ev.SitemapURL())

	return &fill.Context{Values: values}
}

func setIf(values map[string]any, key, val string) {
	if val != "" {
		values[key] = val
	}
}

// flatten renders the context values as a plain map for generation hooks.
func flatten(ctx *fill.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	out := make(map[string]any, len(ctx.Values))
	for k, v := range ctx.Values {
		out[k] = v
	}
	return out
}

// evidenceExcerpt copies the entry's selector paths out of the full
// evidence document into a compact excerpt that ships with the
// recommendation. Paths the document lacks are simply skipped.
func evidenceExcerpt(ev evidence.Evidence, entry *playbook.Entry) []byte {
	excerpt := "{}"
	found := false
	for _, path := range entry.EvidenceSelectors {
		res := ev.Get(path)
		if !res.Exists() {
			continue
		}
		updated, err := sjson.SetRaw(excerpt, path, res.Raw)
		if err != nil {
			continue
		}
		excerpt = updated
		found = true
	}
	if !found {
		return nil
	}
	return []byte(excerpt)
}
