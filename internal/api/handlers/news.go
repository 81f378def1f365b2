package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/brfrastenen/brfweb/internal/api/middleware"
	"github.com/brfrastenen/brfweb/internal/config"
	"github.com/brfrastenen/brfweb/internal/domain"
	"github.com/brfrastenen/brfweb/internal/obs"
	"github.com/brfrastenen/brfweb/internal/service"
	"github.com/brfrastenen/brfweb/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type NewsHandler struct {
	newsService *service.NewsService
	renderer    *web.Renderer
	cfg         *config.Config
}

func NewNewsHandler(newsService *service.NewsService, renderer *web.Renderer, cfg *config.Config) *NewsHandler {
	return &NewsHandler{newsService: newsService, renderer: renderer, cfg: cfg}
}

type adminNewsView struct {
	News []domain.NewsItem
}

type newsFormView struct {
	News   *domain.NewsItem
	Action string
}

// AdminList shows every item, drafts included.
func (h *NewsHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	items, err := h.newsService.AdminList(r.Context())
	if err != nil {
		log.Printf("ERROR [handlers.News] listing news: %v", err)
		items = nil
	}

	h.renderer.Render(w, http.StatusOK, "admin/news", web.Data{
		Title:       "Hantera nyheter",
		CurrentPage: "/admin/nyheter",
		User:        principal,
		Flash:       web.PopFlash(w, r),
		Content:     adminNewsView{News: items},
	})
}

func (h *NewsHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	h.renderer.Render(w, http.StatusOK, "admin/news_form", web.Data{
		Title:       "Skapa nyhet",
		CurrentPage: "/admin/nyheter",
		User:        principal,
		Flash:       web.PopFlash(w, r),
		Content:     newsFormView{Action: h.cfg.BaseURL + "/admin/nyheter/ny"},
	})
}

func (h *NewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		http.Redirect(w, r, h.cfg.BaseURL+"/admin/login", http.StatusFound)
		return
	}

	input := h.parseForm(r)
	_, err := h.newsService.Create(r.Context(), principal, input)
	if err != nil {
		h.writeFailed(w, r, "skapa", err, h.cfg.BaseURL+"/admin/nyheter/ny")
		return
	}

	obs.IncNewsWrite("create")
	web.SetFlash(w, web.Flash{Type: "success", Text: "Nyheten har skapats!"}, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/nyheter", http.StatusFound)
}

func (h *NewsHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	principal, _ := middleware.GetPrincipal(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	item, err := h.newsService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.notFound(w, r)
			return
		}
		log.Printf("ERROR [handlers.News] fetching news %s: %v", id, err)
		h.notFound(w, r)
		return
	}

	h.renderer.Render(w, http.StatusOK, "admin/news_form", web.Data{
		Title:       "Redigera nyhet",
		CurrentPage: "/admin/nyheter",
		User:        principal,
		Flash:       web.PopFlash(w, r),
		Content: newsFormView{
			News:   item,
			Action: h.cfg.BaseURL + "/admin/nyheter/" + item.ID.String() + "/uppdatera",
		},
	})
}

func (h *NewsHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		http.Redirect(w, r, h.cfg.BaseURL+"/admin/login", http.StatusFound)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	input := h.parseForm(r)
	_, err = h.newsService.Update(r.Context(), principal, id, input)
	if err != nil {
		h.writeFailed(w, r, "uppdatera", err, h.cfg.BaseURL+"/admin/nyheter")
		return
	}

	obs.IncNewsWrite("update")
	web.SetFlash(w, web.Flash{Type: "success", Text: "Nyheten har uppdaterats framgångsrikt!"}, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/nyheter", http.StatusFound)
}

func (h *NewsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		http.Redirect(w, r, h.cfg.BaseURL+"/admin/login", http.StatusFound)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFound(w, r)
		return
	}

	if err := h.newsService.Delete(r.Context(), principal, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			web.SetFlash(w, web.Flash{Type: "warning", Text: "Nyheten hittades inte"}, h.cfg.IsProduction())
		} else {
			log.Printf("ERROR [handlers.News] deleting news %s: %v", id, err)
			web.SetFlash(w, web.Flash{Type: "danger", Text: "Kunde inte ta bort nyheten"}, h.cfg.IsProduction())
		}
		http.Redirect(w, r, h.cfg.BaseURL+"/admin/nyheter", http.StatusFound)
		return
	}

	obs.IncNewsWrite("delete")
	web.SetFlash(w, web.Flash{Type: "success", Text: "Nyheten har tagits bort framgångsrikt!"}, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/nyheter", http.StatusFound)
}

func (h *NewsHandler) parseForm(r *http.Request) service.NewsInput {
	if err := r.ParseForm(); err != nil {
		log.Printf("ERROR [handlers.News] parsing form: %v", err)
	}

	return service.NewsInput{
		Title:        r.PostFormValue("title"),
		Content:      r.PostFormValue("content"),
		PublishDate:  parseDate(r.PostFormValue("publishDate")),
		VisibleUntil: parseDate(r.PostFormValue("visibleUntil")),
		IsPermanent:  r.PostFormValue("isPermanent") == "on",
		IsPublished:  r.PostFormValue("isPublished") == "on",
		Author:       r.PostFormValue("author"),
	}
}

// writeFailed turns a failed mutation into a flash and a redirect.
// Validation messages are shown as-is; storage detail stays in the
// logs outside development.
func (h *NewsHandler) writeFailed(w http.ResponseWriter, r *http.Request, verb string, err error, target string) {
	log.Printf("ERROR [handlers.News] %s news: %v", verb, err)

	var verr *domain.ValidationError
	text := "Kunde inte " + verb + " nyheten"
	switch {
	case errors.As(err, &verr):
		text = "Kunde inte " + verb + " nyheten: " + verr.Error()
	case errors.Is(err, domain.ErrNotFound):
		text = "Nyheten hittades inte"
	case h.cfg.IsDevelopment():
		text = "Kunde inte " + verb + " nyheten: " + err.Error()
	}

	web.SetFlash(w, web.Flash{Type: "danger", Text: text}, h.cfg.IsProduction())
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *NewsHandler) notFound(w http.ResponseWriter, r *http.Request) {
	web.SetFlash(w, web.Flash{Type: "danger", Text: "Nyheten hittades inte"}, h.cfg.IsProduction())
	http.Redirect(w, r, h.cfg.BaseURL+"/admin/nyheter", http.StatusFound)
}

func parseDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
