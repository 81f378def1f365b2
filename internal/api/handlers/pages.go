package handlers

import (
	"encoding/xml"
	"log"
	"net/http"
	"time"

	"github.com/brfrastenen/brfweb/internal/api/middleware"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/content"
	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
	"github.com/go-chi/chi/v5"
)

type PageHandler struct {
	newsService *service.NewsService
	authService *service.AuthService
	pages       *content.Registry
	renderer    *web.Renderer
	cfg         *config.Config
}

func NewPageHandler(newsService *service.NewsService, authService *service.AuthService, pages *content.Registry, renderer *web.Renderer, cfg *config.Config) *PageHandler {
	return &PageHandler{
		newsService: newsService,
		authService: authService,
		pages:       pages,
		renderer:    renderer,
		cfg:         cfg,
	}
}

type homeView struct {
	LatestNews []domain.NewsItem
}

type newsView struct {
	News []domain.NewsItem
}

type sectionView struct {
	Pages []content.Page
}

// Home shows the three most recent visible items. A feed failure
// renders the page without news rather than erroring.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	feed, err := h.newsService.PublicFeed(r.Context(), time.Now())
	if err != nil {
		log.Printf("ERROR [handlers.Pages] fetching public feed: %v", err)
		feed = nil
	}
	if len(feed) > 3 {
		feed = feed[:3]
	}

	h.renderer.Render(w, http.StatusOK, "pages/home", web.Data{
		Title:       "BRF Råstenen Mitt - Hem",
		Description: "Välkommen till BRF Råstenen Mitts officiella webbplats",
		CurrentPage: "/",
		User:        h.webSessionUser(r),
		Content:     homeView{LatestNews: feed},
	})
}

func (h *PageHandler) News(w http.ResponseWriter, r *http.Request) {
	feed, err := h.newsService.PublicFeed(r.Context(), time.Now())
	if err != nil {
		log.Printf("ERROR [handlers.Pages] fetching public feed: %v", err)
		feed = nil
	}

	h.renderer.Render(w, http.StatusOK, "pages/news", web.Data{
		Title:       "Nyheter",
		Description: "Senaste nytt från BRF Råstenen Mitt",
		CurrentPage: "/nyheter",
		User:        h.webSessionUser(r),
		Content:     newsView{News: feed},
	})
}

type rssFeed struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// NewsRSS serves the visible feed as RSS 2.0.
func (h *PageHandler) NewsRSS(w http.ResponseWriter, r *http.Request) {
	feed, err := h.newsService.PublicFeed(r.Context(), time.Now())
	if err != nil {
		log.Printf("ERROR [handlers.Pages] fetching public feed: %v", err)
		http.Error(w, "Ett oväntat fel inträffade", http.StatusInternalServerError)
		return
	}

	channel := rssChannel{
		Title:       "BRF Råstenen Mitt - Nyheter",
		Link:        h.cfg.BaseURL + "/nyheter",
		Description: "Senaste nytt från BRF Råstenen Mitt",
	}
	for _, item := range feed {
		channel.Items = append(channel.Items, rssItem{
			Title:       item.Title,
			Description: item.Content,
			Author:      item.Author,
			PubDate:     item.PublishDate.Format(time.RFC1123Z),
			GUID:        item.ID.String(),
		})
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(xml.Header))
	if err := xml.NewEncoder(w).Encode(rssFeed{Version: "2.0", Channel: channel}); err != nil {
		log.Printf("ERROR [handlers.Pages] encoding rss: %v", err)
	}
}

// SectionIndex lists the pages of a static section (om-oss, dokument).
func (h *PageHandler) SectionIndex(sectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, ok := h.pages.Section(sectionName)
		if !ok {
			h.NotFound(w, r)
			return
		}

		h.renderer.Render(w, http.StatusOK, "pages/section", web.Data{
			Title:       section.Title,
			Description: section.Description,
			CurrentPage: "/" + sectionName,
			User:        h.webSessionUser(r),
			Content:     sectionView{Pages: section.Pages},
		})
	}
}

// StaticPage renders one registered subpage; unknown slugs 404.
func (h *PageHandler) StaticPage(sectionName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "page")
		page, ok := h.pages.Page(sectionName, slug)
		if !ok {
			h.NotFound(w, r)
			return
		}

		h.renderer.Render(w, http.StatusOK, "pages/static", web.Data{
			Title:       page.Title,
			Description: page.Description,
			CurrentPage: "/" + sectionName + "/" + slug,
			User:        h.webSessionUser(r),
		})
	}
}

func (h *PageHandler) Kontakt(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "pages/kontakt", web.Data{
		Title:       "Kontakt",
		Description: "Kontaktuppgifter till BRF Råstenen Mitt",
		CurrentPage: "/kontakt",
		User:        h.webSessionUser(r),
	})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusNotFound, "errors/404", web.Data{
		Title:       "Sidan hittades inte",
		CurrentPage: "/404",
	})
}

// webSessionUser resolves the rendering-only web session cookie; it
// never grants access to anything.
func (h *PageHandler) webSessionUser(r *http.Request) *domain.Principal {
	cookie, err := r.Cookie(middleware.WebSessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	principal, err := h.authService.ReadWebSession(cookie.Value)
	if err != nil {
		return nil
	}
	return principal
}
