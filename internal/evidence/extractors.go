package evidence

// Semantic extractors over the documented evidence paths. Each one names
// a domain fact, reads it defensively, and states its default, so
// callers never branch on raw missing-path results.
//
// Documented paths (extractor versions may omit any of them):
//
//	url                          scanned page URL
//	meta.title                   page title text
//	meta.description             meta description text
//	schema.types                 JSON-LD @type names found on the page
//	schema.hasOrganization       Organization schema present
//	schema.organizationErrors    validator messages for the Organization object
//	schema.hasFAQPage            FAQPage schema present
//	schema.hasBreadcrumb         BreadcrumbList schema present
//	content.faqs                 [{question, answer}] candidate FAQ items
//	content.faqPageLink          href of a dedicated FAQ page, if linked
//	content.wordCount            visible word count
//	headings.h1Count             number of h1 elements
//	headings.h2Count             number of h2 elements
//	headings.hierarchyValid      heading levels never skip
//	media.imageCount             total img elements
//	media.imagesWithAlt          img elements with non-empty alt
//	navigation.labels            visible nav link labels
//	robots.hasLlmsTxt            /llms.txt served
//	robots.sitemapUrl            sitemap URL from robots.txt
//	freshness.lastModified       most recent content date found
//	authors                      [{name, hasBio}] detected author bylines

// PageURL returns the scanned page URL, or "" when the extractor did not
// record one.
func (e Evidence) PageURL() string {
	return e.Str("url", "")
}

// FAQItem is one candidate question/answer pair found on the page.
type FAQItem struct {
	Question string
	Answer   string
}

// FAQItems returns the candidate FAQ items, empty when none were found.
func (e Evidence) FAQItems() []FAQItem {
	res := e.Get("content.faqs")
	if !res.IsArray() {
		return nil
	}
	var items []FAQItem
	for _, item := range res.Array() {
		items = append(items, FAQItem{
			Question: item.Get("question").String(),
			Answer:   item.Get("answer").String(),
		})
	}
	return items
}

// FAQCount returns the number of candidate FAQ items, default 0.
func (e Evidence) FAQCount() int {
	if res := e.Get("content.faqs"); res.IsArray() {
		return len(res.Array())
	}
	return 0
}

// HasFAQSchema reports whether FAQPage schema markup is present, default false.
func (e Evidence) HasFAQSchema() bool {
	return e.Bool("schema.hasFAQPage")
}

// FAQPageLink returns the href of a dedicated FAQ page, or "" when the
// site links no such page.
func (e Evidence) FAQPageLink() string {
	return e.Str("content.faqPageLink", "")
}

// HasOrganizationSchema reports whether an Organization schema object is
// present, default false.
func (e Evidence) HasOrganizationSchema() bool {
	return e.Bool("schema.hasOrganization")
}

// OrganizationSchemaErrors returns validator messages recorded against
// the Organization object; empty means no recorded errors.
func (e Evidence) OrganizationSchemaErrors() []string {
	return e.Strings("schema.organizationErrors")
}

// SchemaTypes returns the JSON-LD @type names found on the page.
func (e Evidence) SchemaTypes() []string {
	return e.Strings("schema.types")
}

// HasBreadcrumbSchema reports whether BreadcrumbList markup is present.
func (e Evidence) HasBreadcrumbSchema() bool {
	return e.Bool("schema.hasBreadcrumb")
}

// AltStats summarizes image alt-text coverage.
type AltStats struct {
	ImageCount    int
	ImagesWithAlt int
}

// Coverage returns the alt-text coverage ratio. A page with no images
// has full coverage by definition.
func (s AltStats) Coverage() float64 {
	if s.ImageCount <= 0 {
		return 1
	}
	return float64(s.ImagesWithAlt) / float64(s.ImageCount)
}

// ImageAltStats returns alt-text coverage counts, defaults 0/0.
func (e Evidence) ImageAltStats() AltStats {
	return AltStats{
		ImageCount:    int(e.Int("media.imageCount", 0)),
		ImagesWithAlt: int(e.Int("media.imagesWithAlt", 0)),
	}
}

// Headings summarizes the page's heading structure.
type Headings struct {
	H1Count        int
	H2Count        int
	HierarchyValid bool
}

// HeadingInfo returns heading structure facts. When the extractor
// recorded nothing, counts default to 0 and the hierarchy reads invalid.
func (e Evidence) HeadingInfo() Headings {
	return Headings{
		H1Count:        int(e.Int("headings.h1Count", 0)),
		H2Count:        int(e.Int("headings.h2Count", 0)),
		HierarchyValid: e.Bool("headings.hierarchyValid"),
	}
}

// MetaInfo holds page metadata text.
type MetaInfo struct {
	Title       string
	Description string
}

// Meta returns the page title and meta description, defaults "".
func (e Evidence) Meta() MetaInfo {
	return MetaInfo{
		Title:       e.Str("meta.title", ""),
		Description: e.Str("meta.description", ""),
	}
}

// NavigationLabels returns visible navigation link labels, empty when
// the extractor recorded none.
func (e Evidence) NavigationLabels() []string {
	return e.Strings("navigation.labels")
}

// HasLLMsTxt reports whether the site serves /llms.txt, default false.
func (e Evidence) HasLLMsTxt() bool {
	return e.Bool("robots.hasLlmsTxt")
}

// SitemapURL returns the sitemap URL from robots.txt, or "" when absent.
func (e Evidence) SitemapURL() string {
	return e.Str("robots.sitemapUrl", "")
}

// AuthorStats summarizes detected author bylines.
type AuthorStats struct {
	AuthorCount int
	WithBio     int
}

// AuthorBioStats counts detected authors and how many have a bio,
// defaults 0/0.
func (e Evidence) AuthorBioStats() AuthorStats {
	res := e.Get("authors")
	if !res.IsArray() {
		return AuthorStats{}
	}
	var stats AuthorStats
	for _, a := range res.Array() {
		stats.AuthorCount++
		if a.Get("hasBio").Bool() {
			stats.WithBio++
		}
	}
	return stats
}

// LastModified returns the most recent content date the extractor found,
// or "" when none was recorded.
func (e Evidence) LastModified() string {
	return e.Str("freshness.lastModified", "")
}

// WordCount returns the visible word count, default 0.
func (e Evidence) WordCount() int {
	return int(e.Int("content.wordCount", 0))
}
