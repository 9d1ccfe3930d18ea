// Package views provides the stock templ components for a crimepress site.
// Sites that want a different look pass their own ViewFuncs instead.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/aslhikaya/crimepress"
)

// Default returns ViewFuncs rendering the built-in right-to-left Arabic
// layout.
func Default(cfg crimepress.SiteConfig) crimepress.ViewFuncs {
	v := &renderer{cfg: cfg}
	return crimepress.ViewFuncs{
		Home:           v.home,
		Story:          v.story,
		Category:       v.category,
		Best:           v.best,
		Contact:        v.contact,
		AdminLogin:     v.adminLogin,
		AdminDashboard: v.adminDashboard,
		AdminStoryForm: v.adminStoryForm,
		AdminImages:    v.adminImages,
		NotFound:       v.notFound,
		ServerError:    v.serverError,
	}
}

type renderer struct {
	cfg crimepress.SiteConfig
}

func esc(s string) string { return html.EscapeString(s) }

// page wraps body in the site shell. meta may be zero for pages without
// bespoke SEO tags; jsonld entries are emitted as ld+json script blocks.
func (v *renderer) page(meta crimepress.Metadata, jsonld []string, body func(w io.Writer) error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if meta.Title == "" {
			meta.Title = v.cfg.Name
		}
		if meta.SiteName == "" {
			meta.SiteName = v.cfg.Name
		}
		if meta.Locale == "" {
			meta.Locale = v.cfg.Locale
		}
		fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="%s" dir="rtl">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s</title>
`, esc(v.cfg.Language), esc(meta.Title))
		if meta.Description != "" {
			fmt.Fprintf(w, "<meta name=\"description\" content=\"%s\">\n", esc(meta.Description))
		}
		if len(meta.Keywords) > 0 {
			fmt.Fprintf(w, "<meta name=\"keywords\" content=\"%s\">\n", esc(strings.Join(meta.Keywords, ", ")))
		}
		if meta.Robots != "" {
			fmt.Fprintf(w, "<meta name=\"robots\" content=\"%s\">\n", esc(meta.Robots))
		}
		if meta.Canonical != "" {
			fmt.Fprintf(w, "<link rel=\"canonical\" href=\"%s\">\n", esc(meta.Canonical))
		}
		ogType := meta.OGType
		if ogType == "" {
			ogType = "website"
		}
		fmt.Fprintf(w, "<meta property=\"og:type\" content=\"%s\">\n", esc(ogType))
		fmt.Fprintf(w, "<meta property=\"og:title\" content=\"%s\">\n", esc(meta.Title))
		if meta.Description != "" {
			fmt.Fprintf(w, "<meta property=\"og:description\" content=\"%s\">\n", esc(meta.Description))
		}
		if meta.Canonical != "" {
			fmt.Fprintf(w, "<meta property=\"og:url\" content=\"%s\">\n", esc(meta.Canonical))
		}
		fmt.Fprintf(w, "<meta property=\"og:site_name\" content=\"%s\">\n", esc(meta.SiteName))
		fmt.Fprintf(w, "<meta property=\"og:locale\" content=\"%s\">\n", esc(meta.Locale))
		if meta.OGImage != "" {
			fmt.Fprintf(w, "<meta property=\"og:image\" content=\"%s\">\n", esc(meta.OGImage))
		}
		if meta.PublishedAt != "" {
			fmt.Fprintf(w, "<meta property=\"article:published_time\" content=\"%s\">\n", esc(meta.PublishedAt))
		}
		card := meta.TwitterCard
		if card == "" {
			card = "summary_large_image"
		}
		fmt.Fprintf(w, "<meta name=\"twitter:card\" content=\"%s\">\n", esc(card))
		if meta.TwitterSite != "" {
			fmt.Fprintf(w, "<meta name=\"twitter:site\" content=\"%s\">\n", esc(meta.TwitterSite))
		}
		for _, block := range jsonld {
			// JSON-LD is built by the engine from trusted marshaled data.
			fmt.Fprintf(w, "<script type=\"application/ld+json\">%s</script>\n", block)
		}
		io.WriteString(w, "<link rel=\"stylesheet\" href=\"/public/site.css\">\n</head>\n<body>\n")

		fmt.Fprintf(w, `<header class="site-header">
<a class="brand" href="/">%s</a>
<nav>
<a href="/">الرئيسية</a>
<a href="/videos/best/">الأفضل</a>
<a href="/contact/">تواصل معنا</a>
</nav>
<form class="search" action="/" method="get" data-search-endpoint="/api/search">
<input type="search" name="q" placeholder="ابحث عن قضية..." dir="rtl">
</form>
</header>
<main>
`, esc(v.cfg.Name))

		if err := body(w); err != nil {
			return err
		}

		fmt.Fprintf(w, `</main>
<footer class="site-footer">
<p>%s</p>
<form class="newsletter" data-endpoint="/api/newsletter">
<input type="email" name="email" placeholder="بريدك الإلكتروني" dir="ltr" required>
<button type="submit">اشترك</button>
</form>
</footer>
<script src="/public/site.js" defer></script>
</body>
</html>
`, esc(v.cfg.Description))
		return nil
	})
}

func storyCard(w io.Writer, s crimepress.Story) {
	fmt.Fprintf(w, `<article class="card">
<a href="/videos/%s/">
<img src="%s" alt="%s" loading="lazy">
<h3>%s</h3>
</a>
<p>%s</p>
`, crimepress.PathEscape(s.Slug), esc(crimepress.StoryThumbnail(s)), esc(s.Title), esc(s.Title), esc(s.Excerpt))
	if s.CategoryName != "" {
		fmt.Fprintf(w, "<a class=\"card-category\" href=\"/category/%s/\">%s</a>\n", crimepress.PathEscape(s.CategorySlug), esc(s.CategoryName))
	}
	io.WriteString(w, "</article>\n")
}

func storyGrid(w io.Writer, heading string, stories []crimepress.Story) {
	if len(stories) == 0 {
		return
	}
	io.WriteString(w, "<section class=\"grid-section\">\n")
	if heading != "" {
		fmt.Fprintf(w, "<h2>%s</h2>\n", esc(heading))
	}
	io.WriteString(w, "<div class=\"grid\">\n")
	for _, s := range stories {
		storyCard(w, s)
	}
	io.WriteString(w, "</div>\n</section>\n")
}

func (v *renderer) home(d crimepress.HomeData) templ.Component {
	meta := crimepress.Metadata{
		Title:       v.cfg.Name,
		Description: v.cfg.Description,
		Keywords:    v.cfg.Keywords,
		Canonical:   crimepress.CanonicalURL(v.cfg, "/"),
		OGType:      "website",
		TwitterSite: v.cfg.TwitterSite,
	}
	jsonld := []string{crimepress.OrganizationSchema(v.cfg)}
	return v.page(meta, jsonld, func(w io.Writer) error {
		storyGrid(w, "أحدث القضايا", d.Latest)
		storyGrid(w, "الأكثر مشاهدة", d.Trending)
		storyGrid(w, "مختارات", d.Best)
		if len(d.Categories) > 0 {
			io.WriteString(w, "<section class=\"categories\">\n<h2>الأقسام</h2>\n<ul>\n")
			for _, cat := range d.Categories {
				fmt.Fprintf(w, "<li><a href=\"/category/%s/\">%s</a></li>\n", crimepress.PathEscape(cat.Slug), esc(cat.Name))
			}
			io.WriteString(w, "</ul>\n</section>\n")
		}
		return nil
	})
}

func (v *renderer) story(d crimepress.StoryData) templ.Component {
	return v.page(d.Meta, d.JSONLD, func(w io.Writer) error {
		s := d.Story
		fmt.Fprintf(w, "<article class=\"story\">\n<h1>%s</h1>\n", esc(s.Title))
		fmt.Fprintf(w, "<p class=\"story-meta\"><time datetime=\"%s\">%s</time>", esc(s.PublishedAt), esc(s.PublishedAt))
		if s.CategoryName != "" {
			fmt.Fprintf(w, " · <a href=\"/category/%s/\">%s</a>", crimepress.PathEscape(s.CategorySlug), esc(s.CategoryName))
		}
		if d.ReadingTime > 0 {
			fmt.Fprintf(w, " · %d دقائق قراءة", d.ReadingTime)
		}
		io.WriteString(w, "</p>\n")

		if s.ExternalOnly {
			// External-only stories link out instead of embedding the player.
			fmt.Fprintf(w, `<a class="watch-cta" href="https://www.youtube.com/watch?v=%s" target="_blank" rel="noopener">
<img src="%s" alt="%s">
<span>شاهد الفيديو على يوتيوب</span>
</a>
`, esc(s.YouTubeID), esc(crimepress.StoryThumbnail(s)), esc(s.Title))
		} else {
			fmt.Fprintf(w, `<div class="player">
<iframe src="https://www.youtube-nocookie.com/embed/%s" title="%s" allowfullscreen loading="lazy"></iframe>
</div>
`, esc(s.YouTubeID), esc(s.Title))
		}

		if s.Location != "" {
			fmt.Fprintf(w, "<p class=\"story-location\">الموقع: %s</p>\n", esc(s.Location))
		}
		if len(s.PeopleInvolved) > 0 {
			fmt.Fprintf(w, "<p class=\"story-people\">الأشخاص: %s</p>\n", esc(strings.Join(s.PeopleInvolved, "، ")))
		}

		// Content is admin-authored HTML, rendered unescaped.
		fmt.Fprintf(w, "<div class=\"story-body\">%s</div>\n", s.Content)

		if len(d.FAQs) > 0 {
			io.WriteString(w, "<section class=\"faqs\">\n<h2>أسئلة شائعة</h2>\n")
			for _, f := range d.FAQs {
				fmt.Fprintf(w, "<details>\n<summary>%s</summary>\n<p>%s</p>\n</details>\n", esc(f.Question), esc(f.Answer))
			}
			io.WriteString(w, "</section>\n")
		}
		io.WriteString(w, "</article>\n")

		storyGrid(w, "قضايا ذات صلة", d.Related)
		return nil
	})
}

func (v *renderer) category(d crimepress.CategoryData) templ.Component {
	return v.page(d.Meta, d.JSONLD, func(w io.Writer) error {
		fmt.Fprintf(w, "<h1>%s</h1>\n", esc(d.Category.Name))
		// Intro HTML is curated content from config or the built-in table.
		fmt.Fprintf(w, "<div class=\"category-intro\">%s</div>\n", d.Intro)
		storyGrid(w, "القضايا", d.Stories)
		return nil
	})
}

func (v *renderer) best(stories []crimepress.Story) templ.Component {
	meta := crimepress.Metadata{
		Title:       "أفضل القضايا | " + v.cfg.ShortName,
		Description: v.cfg.Description,
		Canonical:   crimepress.CanonicalURL(v.cfg, "/videos/best/"),
		OGType:      "website",
		TwitterSite: v.cfg.TwitterSite,
	}
	return v.page(meta, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>أفضل القضايا</h1>\n")
		storyGrid(w, "", stories)
		return nil
	})
}

func (v *renderer) contact(sent, failed bool, csrfToken string) templ.Component {
	meta := crimepress.Metadata{
		Title:     "تواصل معنا | " + v.cfg.ShortName,
		Canonical: crimepress.CanonicalURL(v.cfg, "/contact/"),
		OGType:    "website",
	}
	return v.page(meta, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>تواصل معنا</h1>\n")
		if sent {
			io.WriteString(w, "<p class=\"flash ok\">تم إرسال رسالتك بنجاح، شكرًا لتواصلك معنا.</p>\n")
		}
		if failed {
			io.WriteString(w, "<p class=\"flash err\">تعذر إرسال الرسالة، تأكد من البيانات وحاول مرة أخرى.</p>\n")
		}
		fmt.Fprintf(w, `<form method="post" action="/contact/">
<input type="hidden" name="_csrf" value="%s">
<label>الاسم<input type="text" name="name" required></label>
<label>البريد الإلكتروني<input type="email" name="email" dir="ltr" required></label>
<label>الرسالة<textarea name="message" rows="6" required></textarea></label>
<button type="submit">إرسال</button>
</form>
`, esc(csrfToken))
		return nil
	})
}

func (v *renderer) adminLogin(showError bool, csrfToken string) templ.Component {
	return v.page(crimepress.Metadata{Title: "تسجيل الدخول", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>لوحة التحكم</h1>\n")
		if showError {
			io.WriteString(w, "<p class=\"flash err\">بيانات الدخول غير صحيحة.</p>\n")
		}
		fmt.Fprintf(w, `<form method="post" action="/admin/login/">
<input type="hidden" name="_csrf" value="%s">
<label>البريد الإلكتروني<input type="email" name="email" dir="ltr" required></label>
<label>كلمة المرور<input type="password" name="password" required></label>
<button type="submit">دخول</button>
</form>
`, esc(csrfToken))
		return nil
	})
}

func (v *renderer) adminDashboard(d crimepress.AdminData) templ.Component {
	return v.page(crimepress.Metadata{Title: "لوحة التحكم", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>لوحة التحكم</h1>\n")
		if d.Message != "" {
			fmt.Fprintf(w, "<p class=\"flash\">%s</p>\n", esc(d.Message))
		}
		fmt.Fprintf(w, `<p>
<a class="button" href="/admin/story/new/">قصة جديدة</a>
<a class="button" href="/admin/images/">الصور</a>
</p>
<form method="post" action="/admin/logout/"><input type="hidden" name="_csrf" value="%s"><button>خروج</button></form>
`, esc(d.CSRF))

		io.WriteString(w, "<h2>القصص</h2>\n<table>\n<tr><th>العنوان</th><th>القسم</th><th>المشاهدات</th><th>النشر</th><th></th></tr>\n")
		for _, s := range d.Stories {
			fmt.Fprintf(w, `<tr>
<td><a href="/admin/story/%d/">%s</a></td>
<td>%s</td>
<td>%d</td>
<td>%s</td>
<td><button data-delete="/admin/story/%d/" data-csrf="%s">حذف</button></td>
</tr>
`, s.ID, esc(s.Title), esc(s.CategoryName), s.Views, esc(s.PublishedAt), s.ID, esc(d.CSRF))
		}
		io.WriteString(w, "</table>\n")

		io.WriteString(w, "<h2>الأقسام</h2>\n<table>\n<tr><th>الاسم</th><th>الرابط</th><th></th></tr>\n")
		for _, cat := range d.Categories {
			fmt.Fprintf(w, "<tr><td>%s</td><td dir=\"ltr\">%s</td><td><button data-delete=\"/admin/category/%d/\" data-csrf=\"%s\">حذف</button></td></tr>\n",
				esc(cat.Name), esc(cat.Slug), cat.ID, esc(d.CSRF))
		}
		fmt.Fprintf(w, `</table>
<form method="post" action="/admin/category/save/">
<input type="hidden" name="_csrf" value="%s">
<label>الاسم<input type="text" name="name" required></label>
<label>الرابط<input type="text" name="slug" dir="ltr"></label>
<label>الوصف<input type="text" name="description"></label>
<button type="submit">إضافة قسم</button>
</form>
`, esc(d.CSRF))
		return nil
	})
}

func (v *renderer) adminStoryForm(s crimepress.Story, categories []crimepress.Category, csrfToken string) templ.Component {
	return v.page(crimepress.Metadata{Title: "تحرير قصة", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>تحرير قصة</h1>\n")
		fmt.Fprintf(w, `<p class="yt-import">
<input type="url" id="yt-url" placeholder="رابط يوتيوب" dir="ltr" data-endpoint="/api/yt-info">
<button type="button" id="yt-fetch">جلب البيانات</button>
</p>
<form method="post" action="/admin/story/save/">
<input type="hidden" name="_csrf" value="%s">
<input type="hidden" name="id" value="%d">
<label>العنوان<input type="text" name="title" value="%s" required></label>
<label>الرابط الدائم<input type="text" name="slug" value="%s"></label>
<label>الوصف المختصر<textarea name="excerpt" rows="3">%s</textarea></label>
<label>المحتوى<textarea name="content" rows="20">%s</textarea></label>
<label>معرّف الفيديو<input type="text" name="youtube_id" value="%s" dir="ltr" required></label>
<label>رابط الصورة<input type="url" name="thumbnail_url" value="%s" dir="ltr"></label>
<label>الموقع<input type="text" name="location" value="%s"></label>
<label>الأشخاص<input type="text" name="people_involved" value="%s"></label>
<label>تاريخ النشر<input type="date" name="published_at" value="%s"></label>
`, esc(csrfToken), s.ID, esc(s.Title), esc(s.Slug), esc(s.Excerpt), esc(s.Content),
			esc(s.YouTubeID), esc(s.ThumbnailURL), esc(s.Location),
			esc(strings.Join(s.PeopleInvolved, ", ")), esc(s.PublishedAt))

		io.WriteString(w, "<label>القسم<select name=\"category_id\">\n<option value=\"0\">بدون قسم</option>\n")
		for _, cat := range categories {
			selected := ""
			if cat.ID == s.CategoryID {
				selected = " selected"
			}
			fmt.Fprintf(w, "<option value=\"%d\"%s>%s</option>\n", cat.ID, selected, esc(cat.Name))
		}
		io.WriteString(w, "</select></label>\n")

		fmt.Fprintf(w, `<label><input type="checkbox" name="external_only" value="1"%s> مشاهدة خارجية فقط</label>
<label><input type="checkbox" name="best" value="1"%s> ضمن المختارات</label>
<button type="submit">حفظ</button>
</form>
`, checked(s.ExternalOnly), checked(s.Best))
		return nil
	})
}

func checked(b bool) string {
	if b {
		return " checked"
	}
	return ""
}

func (v *renderer) adminImages(images []crimepress.Image, csrfToken string) templ.Component {
	return v.page(crimepress.Metadata{Title: "الصور", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>الصور</h1>\n")
		fmt.Fprintf(w, `<form method="post" action="/admin/images/upload/" enctype="multipart/form-data">
<input type="hidden" name="_csrf" value="%s">
<input type="file" name="image" accept="image/*" required>
<button type="submit">رفع</button>
</form>
<table>
<tr><th>الملف</th><th>الأبعاد</th><th>الحجم</th><th></th></tr>
`, esc(csrfToken))
		for _, img := range images {
			fmt.Fprintf(w, `<tr>
<td><a href="/public/uploads/%s" dir="ltr">%s</a></td>
<td>%d×%d</td>
<td>%s</td>
<td><button data-delete="/admin/images/%s/" data-csrf="%s">حذف</button></td>
</tr>
`, esc(img.Filename), esc(img.OriginalName), img.Width, img.Height, formatSize(img.Size), esc(img.Filename), esc(csrfToken))
		}
		io.WriteString(w, "</table>\n")
		return nil
	})
}

func formatSize(n int) string {
	if n >= 1<<20 {
		return strconv.FormatFloat(float64(n)/(1<<20), 'f', 1, 64) + " MB"
	}
	if n >= 1<<10 {
		return strconv.Itoa(n/(1<<10)) + " KB"
	}
	return strconv.Itoa(n) + " B"
}

func (v *renderer) notFound() templ.Component {
	return v.page(crimepress.Metadata{Title: "الصفحة غير موجودة", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>404</h1>\n<p>الصفحة التي تبحث عنها غير موجودة.</p>\n<p><a href=\"/\">العودة للرئيسية</a></p>\n")
		return nil
	})
}

func (v *renderer) serverError() templ.Component {
	return v.page(crimepress.Metadata{Title: "خطأ", Robots: "noindex"}, nil, func(w io.Writer) error {
		io.WriteString(w, "<h1>500</h1>\n<p>حدث خطأ غير متوقع، حاول مرة أخرى لاحقًا.</p>\n")
		return nil
	})
}
