package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/auth"
	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/geo"
)

// basePage carries what every template needs.
type basePage struct {
	Session auth.Session
	CSRF    template.HTML
	Flash   string
}

func (a *App) base(r *http.Request) basePage {
	bs := sessionFrom(r)
	return basePage{
		Session: bs.auth.State(),
		CSRF:    csrf.TemplateField(r),
	}
}

func (a *App) handleHome(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)
	if bs.auth.State().IsAuthenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/clubs", http.StatusSeeOther)
}

// --- Auth pages ---

type loginPage struct {
	basePage
	Error string
}

func (a *App) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)
	if bs.auth.State().IsAuthenticated {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	// A fresh visit to the form starts without the previous attempt's error.
	bs.auth.ClearError()

	page := loginPage{basePage: a.base(r)}
	if r.URL.Query().Get("success") == "registration" {
		page.Flash = "Cuenta creada. Ya puedes iniciar sesión."
	}
	a.render(w, "login.html", page)
}

func (a *App) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	email := r.FormValue("email")
	password := r.FormValue("password")

	if err := bs.auth.Login(r.Context(), email, password); err != nil {
		// Error display is state-driven; the page shows Session.Error.
		page := loginPage{basePage: a.base(r), Error: bs.auth.State().Error}
		a.render(w, "login.html", page)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (a *App) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessionFrom(r).auth.Logout()
	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

type registerPage struct {
	basePage
	Error string
}

func (a *App) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "register.html", registerPage{basePage: a.base(r)})
}

func (a *App) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	input := apiclient.RegisterInput{
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		PasswordConfirm: r.FormValue("password_confirm"),
	}

	if err := bs.api.Register(r.Context(), input); err != nil {
		msg := "Error al procesar la solicitud"
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.UserMessage(msg)
		}
		a.render(w, "register.html", registerPage{basePage: a.base(r), Error: msg})
		return
	}

	http.Redirect(w, r, "/auth/login?success=registration", http.StatusSeeOther)
}

// --- Dashboard ---

type dashboardPage struct {
	basePage
	Overview *domain.DashboardOverview
	Loading  bool
	Error    string
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)
	bs.dash.Ensure(r.Context())

	a.render(w, "dashboard.html", dashboardPage{
		basePage: a.base(r),
		Overview: bs.dash.Overview(),
		Loading:  bs.dash.IsLoading(),
		Error:    bs.dash.Error(),
	})
}

// --- Clubs ---

type clubsPage struct {
	basePage
	Clubs []domain.Club
	Error string
}

func (a *App) handleClubs(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	clubs, err := bs.api.ListClubs(r.Context())
	page := clubsPage{basePage: a.base(r), Clubs: clubs}
	if err != nil {
		a.log.Error().Err(err).Msg("club list failed")
		page.Error = "No se pudieron cargar los clubes."
	}
	a.render(w, "clubs.html", page)
}

type clubDetailPage struct {
	basePage
	Club     *domain.Club
	Chapters []domain.Chapter
	LogoURL  string
	IsMember bool
}

func (a *App) handleClubDetail(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	club, err := bs.api.GetClub(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	chapters, err := bs.api.ListChapters(r.Context(), id)
	if err != nil {
		a.log.Error().Err(err).Int64("club", id).Msg("chapter list failed")
	}

	page := clubDetailPage{
		basePage: a.base(r),
		Club:     club,
		Chapters: chapters,
		IsMember: bs.dash.IsMemberOfClub(id),
	}
	if club.Logo != nil {
		page.LogoURL = bs.api.ResolveMediaURL(*club.Logo)
	}
	a.render(w, "club.html", page)
}

type clubFormPage struct {
	basePage
	Error string
}

func (a *App) handleClubCreatePage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "club_create.html", clubFormPage{basePage: a.base(r)})
}

func (a *App) handleClubCreateSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	input := apiclient.ClubInput{
		Name:           r.FormValue("name"),
		Description:    r.FormValue("description"),
		FoundationDate: r.FormValue("foundation_date"),
		Website:        r.FormValue("website"),
	}

	club, err := bs.api.CreateClub(r.Context(), input)
	if err != nil {
		a.render(w, "club_create.html", clubFormPage{
			basePage: a.base(r),
			Error:    formError(err, "No se pudo crear el club."),
		})
		return
	}

	http.Redirect(w, r, "/clubs/"+strconv.FormatInt(club.ID, 10), http.StatusSeeOther)
}

// --- Chapters ---

type chapterDetailPage struct {
	basePage
	Chapter  *domain.Chapter
	Members  []domain.Member
	Role     string
	IsMember bool
}

func (a *App) handleChapterDetail(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	chapter, err := bs.api.GetChapter(r.Context(), id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	members, err := bs.api.ListMembers(r.Context(), id)
	if err != nil {
		a.log.Error().Err(err).Int64("chapter", id).Msg("member list failed")
	}

	a.render(w, "chapter.html", chapterDetailPage{
		basePage: a.base(r),
		Chapter:  chapter,
		Members:  members,
		Role:     bs.dash.RoleInChapter(id),
		IsMember: bs.dash.IsMemberOfChapter(id),
	})
}

type chapterFormPage struct {
	basePage
	ClubID int64
	Error  string
}

func (a *App) handleChapterCreatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a.render(w, "chapter_create.html", chapterFormPage{basePage: a.base(r), ClubID: id})
}

func (a *App) handleChapterCreateSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	clubID, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	input := apiclient.ChapterInput{
		Club:           clubID,
		Name:           r.FormValue("name"),
		Description:    r.FormValue("description"),
		FoundationDate: r.FormValue("foundation_date"),
		Location:       r.FormValue("location"),
		Latitude:       formFloat(r, "latitude"),
		Longitude:      formFloat(r, "longitude"),
	}

	chapter, err := bs.api.CreateChapter(r.Context(), input)
	if err != nil {
		a.render(w, "chapter_create.html", chapterFormPage{
			basePage: a.base(r),
			ClubID:   clubID,
			Error:    formError(err, "No se pudo crear el capítulo."),
		})
		return
	}

	http.Redirect(w, r, "/chapters/"+strconv.FormatInt(chapter.ID, 10), http.StatusSeeOther)
}

// --- Members ---

type memberFormPage struct {
	basePage
	ChapterID int64
	Error     string
}

func (a *App) handleMemberCreatePage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a.render(w, "member_create.html", memberFormPage{basePage: a.base(r), ChapterID: id})
}

func (a *App) handleMemberCreateSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	chapterID, ok := pathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	input := apiclient.MemberInput{
		Chapter:     chapterID,
		FirstName:   r.FormValue("first_name"),
		LastName:    r.FormValue("last_name"),
		Nickname:    r.FormValue("nickname"),
		DateOfBirth: r.FormValue("date_of_birth"),
		Role:        r.FormValue("role"),
		MemberType:  r.FormValue("member_type"),
	}

	if _, err := bs.api.CreateMember(r.Context(), input); err != nil {
		a.render(w, "member_create.html", memberFormPage{
			basePage:  a.base(r),
			ChapterID: chapterID,
			Error:     formError(err, "No se pudo crear el miembro."),
		})
		return
	}

	http.Redirect(w, r, "/chapters/"+strconv.FormatInt(chapterID, 10), http.StatusSeeOther)
}

// --- Events ---

type eventsPage struct {
	basePage
	Events []domain.Event
	Error  string
}

func (a *App) handleEvents(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	list, err := bs.api.ListEvents(r.Context())
	page := eventsPage{basePage: a.base(r), Events: list}
	if err != nil {
		a.log.Error().Err(err).Msg("event list failed")
		page.Error = "No se pudieron cargar los eventos."
	}
	a.render(w, "events.html", page)
}

// --- Map ---

func (a *App) handleMapPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "map.html", a.base(r))
}

type mapData struct {
	Chapters []domain.Chapter `json:"chapters"`
	Bounds   geo.Bounds       `json:"bounds"`
}

func (a *App) handleMapData(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	chapters, err := bs.api.ListChapters(r.Context(), 0)
	if err != nil {
		a.log.Error().Err(err).Msg("map chapter list failed")
		http.Error(w, "upstream error", http.StatusBadGateway)
		return
	}

	mappable := make([]domain.Chapter, 0, len(chapters))
	for _, ch := range chapters {
		if geo.ValidCoordinates(ch.Latitude, ch.Longitude) {
			mappable = append(mappable, ch)
		}
	}

	writeJSON(w, http.StatusOK, mapData{
		Chapters: mappable,
		Bounds:   geo.MapBounds(mappable),
	})
}

func (a *App) handleWS(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)
	a.hub.Handle(bs.id, w, r)
}

// --- Profile ---

type profilePage struct {
	basePage
	Error string
	Saved bool
}

func (a *App) handleProfilePage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "profile.html", profilePage{basePage: a.base(r)})
}

func (a *App) handleProfileSubmit(w http.ResponseWriter, r *http.Request) {
	bs := sessionFrom(r)

	patch := domain.UserPatch{
		FirstName: formString(r, "first_name"),
		LastName:  formString(r, "last_name"),
		Email:     formString(r, "email"),
	}

	updated := bs.auth.UpdateUser(r.Context(), patch)
	page := profilePage{basePage: a.base(r), Saved: updated != nil}
	if updated == nil {
		page.Error = bs.auth.State().Error
	}
	a.render(w, "profile.html", page)
}

// --- helpers ---

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func formFloat(r *http.Request, key string) *float64 {
	raw := r.FormValue(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func formString(r *http.Request, key string) *string {
	raw := r.FormValue(key)
	if raw == "" {
		return nil
	}
	return &raw
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func formError(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}
