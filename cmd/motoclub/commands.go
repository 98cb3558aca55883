package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ruta66/motoclub/internal/apiclient"
	"github.com/ruta66/motoclub/internal/domain"
	"github.com/ruta66/motoclub/internal/geo"
)

func loginCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		os.Exit(1)
	}

	if err := app.auth.Login(context.Background(), *email, *password); err != nil {
		fmt.Printf("%s\n", err)
		os.Exit(1)
	}

	s := app.auth.State()
	fmt.Printf("Sesión iniciada como %s\n", s.User.DisplayName())
}

func logoutCmd(app *cli) {
	app.auth.Logout()
	fmt.Println("Sesión cerrada.")
}

func whoamiCmd(app *cli) {
	s := app.auth.State()
	if !s.IsAuthenticated {
		fmt.Println("No has iniciado sesión.")
		os.Exit(1)
	}

	u := s.User
	fmt.Printf("%s <%s>\n", u.DisplayName(), u.Email)
	if u.DateJoined != "" {
		fmt.Printf("Miembro desde %s\n", u.DateJoined)
	}
}

func registerCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	confirm := fs.String("password-confirm", "", "Password confirmation")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Println("Error: --email and --password are required")
		os.Exit(1)
	}
	if *confirm == "" {
		*confirm = *password
	}

	input := apiclient.RegisterInput{Email: *email, Password: *password, PasswordConfirm: *confirm}
	if err := app.api.Register(context.Background(), input); err != nil {
		fmt.Printf("%s\n", userMessage(err, "Error al procesar la solicitud"))
		os.Exit(1)
	}

	fmt.Println("Cuenta creada. Inicia sesión con: motoclub login")
}

func dashboardCmd(app *cli) {
	if !app.auth.State().IsAuthenticated {
		fmt.Println("No has iniciado sesión.")
		os.Exit(1)
	}

	app.dash.Fetch(context.Background())
	if msg := app.dash.Error(); msg != "" {
		fmt.Printf("%s\n", msg)
		os.Exit(1)
	}

	o := app.dash.Overview()
	if o == nil {
		fmt.Println("Error al cargar el dashboard")
		os.Exit(1)
	}

	fmt.Printf("Clubes: %d  Capítulos: %d  Miembros: %d  Eventos: %d\n",
		o.Stats.TotalClubs, o.Stats.TotalChapters, o.Stats.TotalMembers, o.Stats.TotalEvents)

	fmt.Println("\nMis clubes:")
	if len(o.MyClubs) == 0 {
		fmt.Println("  (ninguno)")
	}
	for _, club := range o.MyClubs {
		fmt.Printf("  #%d %s\n", club.ID, club.Name)
	}

	fmt.Println("\nMis capítulos:")
	if len(o.MyChapters) == 0 {
		fmt.Println("  (ninguno)")
	}
	for _, ch := range o.MyChapters {
		role := app.dash.RoleInChapter(ch.ID)
		if role == "" {
			role = "member"
		}
		fmt.Printf("  #%d %s (%s) — %s\n", ch.ID, ch.Name, ch.Location, role)
	}

	fmt.Println("\nPróximos eventos:")
	if len(o.UpcomingEvents) == 0 {
		fmt.Println("  (ninguno)")
	}
	for _, ev := range o.UpcomingEvents {
		fmt.Printf("  %s — %s\n", ev.Date, ev.Title)
	}
}

func clubsCmd(app *cli) {
	clubs, err := app.api.ListClubs(context.Background())
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudieron cargar los clubes."))
		os.Exit(1)
	}

	for _, club := range clubs {
		fmt.Printf("#%d %s (%d miembros)\n", club.ID, club.Name, club.TotalMembers)
	}
}

func clubCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("club", flag.ExitOnError)
	id := fs.Int64("id", 0, "Club ID")
	fs.Parse(args)

	if *id == 0 {
		fmt.Println("Error: --id is required")
		os.Exit(1)
	}

	ctx := context.Background()
	club, err := app.api.GetClub(ctx, *id)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudo cargar el club."))
		os.Exit(1)
	}

	fmt.Printf("%s\n", club.Name)
	fmt.Printf("Fundado: %s  Miembros: %d\n", club.FoundationDate, club.TotalMembers)
	if club.Website != "" {
		fmt.Printf("Web: %s\n", club.Website)
	}
	if club.Logo != nil {
		fmt.Printf("Logo: %s\n", app.api.ResolveMediaURL(*club.Logo))
	}
	if club.Description != "" {
		fmt.Printf("\n%s\n", club.Description)
	}

	chapters, err := app.api.ListChapters(ctx, *id)
	if err == nil && len(chapters) > 0 {
		fmt.Println("\nCapítulos:")
		for _, ch := range chapters {
			fmt.Printf("  #%d %s (%s)\n", ch.ID, ch.Name, ch.Location)
		}
	}
}

func createClubCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("create-club", flag.ExitOnError)
	name := fs.String("name", "", "Club name")
	description := fs.String("description", "", "Club description (markdown)")
	founded := fs.String("founded", "", "Foundation date (YYYY-MM-DD)")
	website := fs.String("website", "", "Club website URL")
	fs.Parse(args)

	if *name == "" || *founded == "" {
		fmt.Println("Error: --name and --founded are required")
		os.Exit(1)
	}

	input := apiclient.ClubInput{
		Name:           *name,
		Description:    *description,
		FoundationDate: *founded,
		Website:        *website,
	}

	club, err := app.api.CreateClub(context.Background(), input)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudo crear el club."))
		os.Exit(1)
	}

	fmt.Printf("Club creado: #%d %s\n", club.ID, club.Name)
}

func chaptersCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("chapters", flag.ExitOnError)
	clubID := fs.Int64("club", 0, "Limit to one club (0 = all)")
	fs.Parse(args)

	chapters, err := app.api.ListChapters(context.Background(), *clubID)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudieron cargar los capítulos."))
		os.Exit(1)
	}

	for _, ch := range chapters {
		fmt.Printf("#%d %s (%s, club #%d, %d miembros)\n",
			ch.ID, ch.Name, ch.Location, ch.Club, ch.TotalMembers)
	}
}

func createChapterCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("create-chapter", flag.ExitOnError)
	clubID := fs.Int64("club", 0, "Club ID")
	name := fs.String("name", "", "Chapter name")
	description := fs.String("description", "", "Chapter description (markdown)")
	founded := fs.String("founded", "", "Foundation date (YYYY-MM-DD)")
	location := fs.String("location", "", "City or region")
	lat := fs.Float64("lat", 0, "Latitude")
	lon := fs.Float64("lon", 0, "Longitude")
	fs.Parse(args)

	if *clubID == 0 || *name == "" || *founded == "" {
		fmt.Println("Error: --club, --name, and --founded are required")
		os.Exit(1)
	}

	input := apiclient.ChapterInput{
		Club:           *clubID,
		Name:           *name,
		Description:    *description,
		FoundationDate: *founded,
		Location:       *location,
	}
	if flagSet(fs, "lat") && flagSet(fs, "lon") {
		input.Latitude = lat
		input.Longitude = lon
	}

	chapter, err := app.api.CreateChapter(context.Background(), input)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudo crear el capítulo."))
		os.Exit(1)
	}

	fmt.Printf("Capítulo creado: #%d %s\n", chapter.ID, chapter.Name)
}

func membersCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("members", flag.ExitOnError)
	chapterID := fs.Int64("chapter", 0, "Chapter ID")
	fs.Parse(args)

	if *chapterID == 0 {
		fmt.Println("Error: --chapter is required")
		os.Exit(1)
	}

	members, err := app.api.ListMembers(context.Background(), *chapterID)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudieron cargar los miembros."))
		os.Exit(1)
	}

	for _, m := range members {
		name := m.FirstName + " " + m.LastName
		if m.Nickname != "" {
			name = fmt.Sprintf("%s %q %s", m.FirstName, m.Nickname, m.LastName)
		}
		fmt.Printf("#%d %s — %s (%s)\n", m.ID, name, m.Role, m.MemberType)
	}
}

func createMemberCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("create-member", flag.ExitOnError)
	chapterID := fs.Int64("chapter", 0, "Chapter ID")
	firstName := fs.String("first-name", "", "First name")
	lastName := fs.String("last-name", "", "Last name")
	nickname := fs.String("nickname", "", "Road name")
	born := fs.String("born", "", "Date of birth (YYYY-MM-DD)")
	role := fs.String("role", "member", "Chapter role")
	memberType := fs.String("type", "full", "Member type (full, prospect, honorary)")
	fs.Parse(args)

	if *chapterID == 0 || *firstName == "" || *lastName == "" {
		fmt.Println("Error: --chapter, --first-name, and --last-name are required")
		os.Exit(1)
	}

	input := apiclient.MemberInput{
		Chapter:     *chapterID,
		FirstName:   *firstName,
		LastName:    *lastName,
		Nickname:    *nickname,
		DateOfBirth: *born,
		Role:        *role,
		MemberType:  *memberType,
	}

	member, err := app.api.CreateMember(context.Background(), input)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudo crear el miembro."))
		os.Exit(1)
	}

	fmt.Printf("Miembro creado: #%d %s %s\n", member.ID, member.FirstName, member.LastName)
}

func eventsCmd(app *cli) {
	list, err := app.api.ListEvents(context.Background())
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudieron cargar los eventos."))
		os.Exit(1)
	}

	for _, ev := range list {
		fmt.Printf("%s — %s", ev.Date, ev.Title)
		if ev.Location != "" {
			fmt.Printf(" (%s)", ev.Location)
		}
		fmt.Println()
	}
}

func mapCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("map", flag.ExitOnError)
	lat := fs.Float64("lat", 0, "Latitude of the search center")
	lon := fs.Float64("lon", 0, "Longitude of the search center")
	radius := fs.Float64("radius", geo.DefaultRadiusKm, "Search radius in kilometers")
	fs.Parse(args)

	if !flagSet(fs, "lat") || !flagSet(fs, "lon") {
		fmt.Println("Error: --lat and --lon are required")
		os.Exit(1)
	}

	chapters, err := app.api.ListChapters(context.Background(), 0)
	if err != nil {
		fmt.Printf("%s\n", userMessage(err, "No se pudieron cargar los capítulos."))
		os.Exit(1)
	}

	nearby := geo.NearbyChapters(*lat, *lon, chapters, *radius)
	if len(nearby) == 0 {
		fmt.Printf("Sin capítulos a menos de %.0f km.\n", *radius)
		return
	}

	for _, ch := range nearby {
		dist := geo.Distance(*lat, *lon, *ch.Latitude, *ch.Longitude)
		fmt.Printf("#%d %s (%s) — %.1f km\n", ch.ID, ch.Name, ch.Location, dist)
	}
}

func profileCmd(app *cli, args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	firstName := fs.String("first-name", "", "New first name")
	lastName := fs.String("last-name", "", "New last name")
	email := fs.String("email", "", "New email")
	fs.Parse(args)

	if !app.auth.State().IsAuthenticated {
		fmt.Println("No has iniciado sesión.")
		os.Exit(1)
	}

	patch := domain.UserPatch{
		FirstName: optional(*firstName),
		LastName:  optional(*lastName),
		Email:     optional(*email),
	}

	updated := app.auth.UpdateUser(context.Background(), patch)
	if updated == nil {
		fmt.Printf("%s\n", app.auth.State().Error)
		os.Exit(1)
	}

	fmt.Printf("Perfil actualizado: %s <%s>\n", updated.DisplayName(), updated.Email)
}

func userMessage(err error, fallback string) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage(fallback)
	}
	return fallback
}

func flagSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
