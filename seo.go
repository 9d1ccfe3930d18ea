package crimepress

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aslhikaya/crimepress/htmltext"
)

// Metadata is the per-page SEO head block: title, description, keywords,
// canonical URL and the OpenGraph/Twitter mirrors.
type Metadata struct {
	Title       string
	Description string
	Keywords    []string
	Canonical   string
	OGType      string // "website" or "article"
	OGImage     string
	SiteName    string
	Locale      string
	TwitterCard string
	TwitterSite string
	PublishedAt string
	UpdatedAt   string
	Robots      string
}

// FAQ is a question/answer pair rendered on story pages and in FAQPage JSON-LD.
type FAQ struct {
	Question string
	Answer   string
}

// Breadcrumb is one element of a BreadcrumbList.
type Breadcrumb struct {
	Name string
	URL  string
}

// CanonicalURL builds the canonical URL for a site path.
func CanonicalURL(cfg SiteConfig, p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return strings.TrimSuffix(cfg.URL, "/") + p
}

// StoryThumbnail returns the story's thumbnail, falling back to the YouTube
// cover image derived from its video id.
func StoryThumbnail(s Story) string {
	if s.ThumbnailURL != "" {
		return s.ThumbnailURL
	}
	return "https://img.youtube.com/vi/" + s.YouTubeID + "/maxresdefault.jpg"
}

// StoryMetadata builds the head metadata for a story page. Valid stories are
// always indexable.
func StoryMetadata(cfg SiteConfig, s Story) Metadata {
	title := s.Title + " | " + cfg.ShortName
	description := s.Excerpt
	if description == "" {
		description = "تفاصيل القصة الكاملة: " + s.Title + ". اكتشف حقيقة ما حدث في هذه القضية الغامضة."
	}
	keywords := []string{
		s.Title,
		"تفاصيل " + s.Title,
		"القصة الكاملة " + s.Title,
		s.CategoryName,
	}
	keywords = append(keywords, cfg.Keywords...)
	keywords = append(keywords, s.PeopleInvolved...)
	if s.Location != "" {
		keywords = append(keywords, s.Location)
	}
	return Metadata{
		Title:       title,
		Description: description,
		Keywords:    dedup(keywords),
		Canonical:   CanonicalURL(cfg, "/videos/"+s.Slug),
		OGType:      "article",
		OGImage:     StoryThumbnail(s),
		SiteName:    cfg.Name,
		Locale:      cfg.Locale,
		TwitterCard: "summary_large_image",
		TwitterSite: cfg.TwitterSite,
		PublishedAt: s.PublishedAt,
		UpdatedAt:   s.UpdatedAt,
		Robots:      "index, follow, max-image-preview:large",
	}
}

// CategoryMetadata builds the head metadata for a category page. The
// description falls back to an interpolated sentence carrying the story count.
func CategoryMetadata(cfg SiteConfig, c Category, storyCount int) Metadata {
	title := c.Name + " | قصص جرائم حقيقية | " + cfg.ShortName
	description := c.Description
	if description == "" {
		description = fmt.Sprintf("اكتشف %d قصة من فئة %s. تفاصيل حصرية وتحليل عميق لأغرب القضايا والجرائم الحقيقية في %s.",
			storyCount, c.Name, c.Name)
	}
	keywords := []string{
		c.Name,
		"قصص " + c.Name,
		"جرائم " + c.Name,
		"تفاصيل " + c.Name,
	}
	keywords = append(keywords, cfg.Keywords...)
	return Metadata{
		Title:       title,
		Description: description,
		Keywords:    dedup(keywords),
		Canonical:   CanonicalURL(cfg, "/category/"+c.Slug),
		OGType:      "website",
		SiteName:    cfg.Name,
		Locale:      cfg.Locale,
		TwitterCard: "summary_large_image",
		TwitterSite: cfg.TwitterSite,
		Robots:      "index, follow",
	}
}

// marshalJSONLD renders a schema.org object, degrading to "{}" so a bad block
// never breaks page rendering.
func marshalJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// OrganizationSchema produces the site-wide Organization JSON-LD block.
func OrganizationSchema(cfg SiteConfig) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        cfg.Name,
		"url":         cfg.URL,
		"logo":        strings.TrimSuffix(cfg.URL, "/") + "/logo.png",
		"description": cfg.Description,
	}
	if len(cfg.SocialLinks) > 0 {
		data["sameAs"] = cfg.SocialLinks
	}
	if cfg.ContactMail != "" {
		data["contactPoint"] = map[string]any{
			"@type":             "ContactPoint",
			"contactType":       "Customer Service",
			"email":             cfg.ContactMail,
			"availableLanguage": []string{"Arabic"},
		}
	}
	return marshalJSONLD(data)
}

// ArticleSchema produces an Article JSON-LD block for a story page.
func ArticleSchema(cfg SiteConfig, s Story) string {
	data := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Article",
		"headline":    s.Title,
		"description": s.Excerpt,
		"image": map[string]any{
			"@type":  "ImageObject",
			"url":    StoryThumbnail(s),
			"width":  1280,
			"height": 720,
		},
		"datePublished": s.PublishedAt,
		"dateModified":  s.UpdatedAt,
		"author": map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
			"url":   cfg.URL,
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  cfg.Name,
			"logo": map[string]any{
				"@type":  "ImageObject",
				"url":    strings.TrimSuffix(cfg.URL, "/") + "/logo.png",
				"width":  600,
				"height": 60,
			},
		},
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   CanonicalURL(cfg, "/videos/"+s.Slug),
		},
		"articleSection": s.CategoryName,
		"keywords":       strings.Join(dedup(append([]string{s.Title, s.CategoryName}, append(cfg.Keywords, s.PeopleInvolved...)...)), ", "),
		"inLanguage":     cfg.Language,
	}
	if s.Location != "" {
		data["contentLocation"] = s.Location
	}
	return marshalJSONLD(data)
}

// VideoObjectSchema produces a VideoObject JSON-LD block. Views are reported
// as the WatchAction interaction count. Duration is a fixed placeholder since
// true duration is not stored.
func VideoObjectSchema(cfg SiteConfig, s Story) string {
	return marshalJSONLD(map[string]any{
		"@context":     "https://schema.org",
		"@type":        "VideoObject",
		"name":         s.Title,
		"description":  s.Excerpt,
		"thumbnailUrl": []string{StoryThumbnail(s)},
		"uploadDate":   s.PublishedAt,
		"contentUrl":   "https://www.youtube.com/watch?v=" + s.YouTubeID,
		"embedUrl":     "https://www.youtube.com/embed/" + s.YouTubeID,
		"duration":     "PT15M",
		"author": map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
			"url":   cfg.URL,
		},
		"publisher": map[string]any{
			"@type": "Organization",
			"name":  cfg.Name,
		},
		"interactionStatistic": map[string]any{
			"@type":                "InteractionCounter",
			"interactionType":      map[string]string{"@type": "WatchAction"},
			"userInteractionCount": s.Views,
		},
		"inLanguage": cfg.Language,
	})
}

// BreadcrumbSchema produces a BreadcrumbList JSON-LD block.
func BreadcrumbSchema(items []Breadcrumb) string {
	elements := make([]map[string]any, len(items))
	for i, item := range items {
		elements[i] = map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     item.Name,
			"item":     item.URL,
		}
	}
	return marshalJSONLD(map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": elements,
	})
}

// FAQSchema produces a FAQPage JSON-LD block.
func FAQSchema(faqs []FAQ) string {
	entities := make([]map[string]any, len(faqs))
	for i, faq := range faqs {
		entities[i] = map[string]any{
			"@type": "Question",
			"name":  faq.Question,
			"acceptedAnswer": map[string]string{
				"@type": "Answer",
				"text":  faq.Answer,
			},
		}
	}
	return marshalJSONLD(map[string]any{
		"@context":   "https://schema.org",
		"@type":      "FAQPage",
		"mainEntity": entities,
	})
}

// CollectionPageSchema produces a CollectionPage JSON-LD block for a category.
func CollectionPageSchema(cfg SiteConfig, c Category, storyCount int) string {
	return marshalJSONLD(map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CollectionPage",
		"name":        c.Name,
		"description": c.Description,
		"url":         CanonicalURL(cfg, "/category/"+c.Slug),
		"mainEntity": map[string]any{
			"@type":         "ItemList",
			"numberOfItems": storyCount,
			"itemListOrder": "https://schema.org/ItemListOrderDescending",
		},
		"inLanguage": cfg.Language,
	})
}

// arabicMonths maps month numbers to Arabic month names.
var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// arabicMonthYear formats a YYYY-MM-DD date as "<month name> <year>".
func arabicMonthYear(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return arabicMonths[t.Month()-1] + " " + fmt.Sprintf("%d", t.Year())
}

// StoryFAQs derives exactly 5 question/answer pairs by templating the story's
// fields into fixed questions. Same story fields always yield the same FAQs.
func StoryFAQs(cfg SiteConfig, s Story) []FAQ {
	categoryName := s.CategoryName
	if categoryName == "" {
		categoryName = "الجرائم"
	}

	first := s.Excerpt
	if first == "" {
		first = s.Title + " هي واحدة من أشهر القضايا في " + categoryName + ". نستعرض في هذه القصة كافة التفاصيل والملابسات التي أحاطت بالقضية."
	}

	when := "وقعت هذه القضية في " + arabicMonthYear(s.PublishedAt)
	if s.Location != "" {
		when += " في " + s.Location
	}
	when += "."

	people := "يتم استعراض جميع الأطراف المتورطة في القضية بالتفصيل في الفيديو."
	if len(s.PeopleInvolved) > 0 {
		people = "الأشخاص الرئيسيون في هذه القضية هم: " + strings.Join(s.PeopleInvolved, "، ") + "."
	}

	return []FAQ{
		{
			Question: "ما هي تفاصيل " + s.Title + "؟",
			Answer:   first,
		},
		{
			Question: "متى وقعت " + s.Title + "؟",
			Answer:   when,
		},
		{
			Question: "من هم الأشخاص المتورطون في " + s.Title + "؟",
			Answer:   people,
		},
		{
			Question: "أين يمكنني مشاهدة القصة الكاملة لـ " + s.Title + "؟",
			Answer:   "يمكنك مشاهدة القصة الكاملة والتفاصيل الحصرية على قناة " + cfg.ShortName + " على يوتيوب، أو من خلال هذه الصفحة مباشرة.",
		},
		{
			Question: "ما هي حقيقة " + s.Title + "؟",
			Answer:   "نستعرض في هذا الفيديو الحقائق الكاملة والتحليل الشامل لـ " + s.Title + "، مع توضيح جميع الجوانب الغامضة في القضية.",
		},
	}
}

// CategoryIntro returns the curated intro HTML for a category slug, falling
// back to a generic templated blob built from the category's own fields.
// intros is the effective lookup table (SiteConfig.Intros()); nil selects the
// built-in defaults.
func CategoryIntro(c Category, intros map[string]string) string {
	if intros == nil {
		intros = DefaultCategoryIntros
	}
	if html, ok := intros[c.Slug]; ok {
		return html
	}
	description := c.Description
	if description == "" {
		description = "استكشف مجموعة متنوعة من القصص والقضايا في فئة " + c.Name + ". نقدم لك تحليلاً شاملاً وتفاصيل حصرية لأغرب وأشهر القضايا."
	}
	return `<div class="category-intro">
  <h2>` + c.Name + `</h2>
  <p>` + description + `</p>
  <h3>ما يميز قصصنا</h3>
  <ul>
    <li><strong>بحث معمق:</strong> نجمع المعلومات من مصادر موثوقة متعددة</li>
    <li><strong>تحليل احترافي:</strong> نقدم وجهات نظر متوازنة ومدروسة</li>
    <li><strong>محتوى حصري:</strong> تفاصيل لا تجدها في مكان آخر</li>
    <li><strong>أسلوب مشوق:</strong> نروي القصص بطريقة تجذب الانتباه وتحترم الضحايا</li>
  </ul>
  <p>تابع معنا أحدث القصص والتحليلات في ` + c.Name + `.</p>
</div>`
}

// DefaultCategoryIntros is the built-in curated intro table, keyed by
// category slug. Config-level overrides merge over it (SiteConfig.Intros).
var DefaultCategoryIntros = map[string]string{
	"جرائم-قتل": `<div class="category-intro">
  <h2>قصص جرائم القتل الحقيقية</h2>
  <p>تعد جرائم القتل من أكثر القضايا الجنائية إثارة وغموضاً في تاريخ الجريمة. في هذا القسم، نستعرض أشهر قضايا القتل التي هزت الرأي العام في مصر والعالم العربي.</p>
  <h3>لماذا نهتم بقصص جرائم القتل؟</h3>
  <p>دراسة جرائم القتل ليست مجرد فضول، بل هي محاولة لفهم الطبيعة البشرية في أحلك لحظاتها. كل قضية قتل تحمل في طياتها دروساً عن المجتمع، والعدالة، والنفس البشرية.</p>
  <h3>ما الذي ستجده في هذا القسم؟</h3>
  <ul>
    <li><strong>تحليل شامل:</strong> نقدم تحليلاً عميقاً لكل قضية، من الدوافع إلى التحقيقات</li>
    <li><strong>تفاصيل حصرية:</strong> معلومات دقيقة عن ملابسات الجريمة والتحقيقات</li>
    <li><strong>السياق الاجتماعي:</strong> فهم الظروف التي أدت إلى وقوع الجريمة</li>
    <li><strong>العدالة:</strong> متابعة مسار القضية في المحاكم والأحكام النهائية</li>
  </ul>
  <p>استكشف معنا أغرب وأشهر قضايا القتل، وتعرف على القصص الكاملة وراء العناوين الصحفية.</p>
</div>`,
	"اختفاء": `<div class="category-intro">
  <h2>قصص الاختفاء الغامضة</h2>
  <p>حالات الاختفاء الغامض من أكثر القضايا إثارة للحيرة والتساؤلات. في هذا القسم، نتتبع قصص الأشخاص الذين اختفوا في ظروف غامضة، ونحاول الوصول إلى الحقيقة.</p>
  <h3>أنواع حالات الاختفاء</h3>
  <p>تتنوع حالات الاختفاء بين الاختفاء الطوعي، والاختطاف، والحوادث المأساوية. كل حالة لها ظروفها الخاصة وتحدياتها في التحقيق.</p>
  <h3>محتوى القسم</h3>
  <ul>
    <li><strong>آخر الأدلة:</strong> تتبع آخر مكان شوهد فيه المفقود</li>
    <li><strong>التحقيقات:</strong> جهود الشرطة والعائلات في البحث</li>
    <li><strong>النظريات:</strong> تحليل مختلف الاحتمالات والسيناريوهات</li>
    <li><strong>التطورات:</strong> آخر المستجدات في القضايا المفتوحة</li>
  </ul>
  <p>انضم إلينا في رحلة البحث عن الحقيقة وراء أغرب حالات الاختفاء في العالم العربي.</p>
</div>`,
	"احتيال": `<div class="category-intro">
  <h2>قصص الاحتيال والنصب الكبرى</h2>
  <p>عالم الاحتيال مليء بالقصص المذهلة التي تجمع بين الذكاء الإجرامي والجشع. نستعرض هنا أكبر قضايا الاحتيال والنصب التي هزت الاقتصاد والمجتمع.</p>
  <h3>أنماط الاحتيال الشائعة</h3>
  <p>من الاحتيال المالي إلى النصب العقاري، ومن الشركات الوهمية إلى المخططات الهرمية، نكشف أساليب المحتالين وكيف يستغلون ضحاياهم.</p>
  <h3>ما ستتعلمه</h3>
  <ul>
    <li><strong>أساليب المحتالين:</strong> كيف يخطط وينفذ المحتالون عملياتهم</li>
    <li><strong>علامات التحذير:</strong> كيف تحمي نفسك من الوقوع ضحية</li>
    <li><strong>القصص الواقعية:</strong> حالات حقيقية من مصر والعالم العربي</li>
    <li><strong>العدالة:</strong> كيف تم كشف الاحتيال ومعاقبة المجرمين</li>
  </ul>
  <p>تعلم من تجارب الآخرين واحمِ نفسك من خلال فهم عقلية المحتال وأساليبه.</p>
</div>`,
}

// ReadingTime estimates minutes to read HTML content at 200 words per minute,
// rounded up. Empty content yields 0.
func ReadingTime(htmlContent string) int {
	words := htmltext.WordCount(htmlContent)
	return (words + 199) / 200
}

// dedup removes duplicates and empty strings, preserving first-seen order.
func dedup(vals []string) []string {
	seen := make(map[string]struct{}, len(vals))
	var out []string
	for _, v := range vals {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
