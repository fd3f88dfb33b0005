package fill

// globalFallbacks supplies neutral display text for placeholders that
// neither the per-call resolvers nor the merged context can satisfy.
// Keys not listed here fall through to empty string, which the cleanup
// pass then erases.
var globalFallbacks = map[string]string{
	"domain":              "your website",
	"site_url":            "your website",
	"page_url":            "this page",
	"company_name":        "your company",
	"company":             "your company",
	"brand_name":          "your brand",
	"industry":            "your industry",
	"target_audience":     "your target audience",
	"target_roles":        "your target audience",
	"primary_audience":    "your audience",
	"icp":                 "your ideal customers",
	"product_name":        "your product",
	"service_name":        "your services",
	"page_title":          "this page",
	"page_type":           "page",
	"content_type":        "content",
	"faq_count":           "several",
	"faq_page_url":        "your FAQ page",
	"question_examples":   "common customer questions",
	"schema_type":         "structured data",
	"schema_types_found":  "existing markup",
	"image_count":         "your images",
	"images_missing_alt":  "some images",
	"alt_coverage":        "partial",
	"heading_example":     "your main headings",
	"h1_text":             "your page heading",
	"meta_description":    "your meta description",
	"sitemap_url":         "your sitemap",
	"author_name":         "your authors",
	"author_count":        "your authors",
	"nav_sections":        "your main navigation",
	"breadcrumb_path":     "your page hierarchy",
	"last_updated":        "recently",
	"competitor_example":  "leading sites in your space",
	"search_engines":      "search and AI engines",
	"ai_assistants":       "AI assistants",
	"cms_name":            "your CMS",
	"support_email":       "your support contact",
	"current_date":        "today",
	"score":               "the current score",
	"threshold":           "the passing score",
}
