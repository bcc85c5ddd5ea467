package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/paramita-auth/internal/server/models"
)

// Me prints the profile of the logged-in user.
func (a *App) Me(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Me(ctx)
	if err != nil {
		a.reportError("Profile unavailable", err)
		return err
	}

	a.printProfile(resp.User)
	return nil
}

func (a *App) printProfile(p models.Profile) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	fmt.Fprintf(w, "Email:\t%s\n", p.Email)
	fmt.Fprintf(w, "Name:\t%s %s\n", p.FirstName, p.LastName)
	fmt.Fprintf(w, "Level:\t%s\n", p.SpiritualLevel)
	fmt.Fprintf(w, "Language:\t%s\n", p.LanguagePreference)
	fmt.Fprintf(w, "Status:\t%s\n", p.Status)
	fmt.Fprintf(w, "Joined:\t%s\n", p.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !p.LastLoginAt.IsZero() {
		fmt.Fprintf(w, "Last login:\t%s\n", p.LastLoginAt.Local().Format("2006-01-02 15:04"))
	}
	for _, name := range models.ProgressCounters {
		fmt.Fprintf(w, "  %s:\t%d\n", name, p.Progress[name])
	}
	w.Flush()
}

func (a *App) Health(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Health(ctx)
	if err != nil {
		a.reportError("Health check failed", err)
		return err
	}

	line := fmt.Sprintf("%s %s: %s (storage: %s)", resp.Service, resp.Version, resp.Status, resp.Storage)
	if resp.Error != "" {
		line += ", " + resp.Error
	}
	fmt.Fprintln(a.out, line)
	return nil
}

func (a *App) Version(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	resp, err := a.api.Version(ctx)
	if err != nil {
		a.reportError("Version unavailable", err)
		return err
	}

	fmt.Fprintf(a.out, "%s %s\n", resp.Service, resp.Version)
	fmt.Fprintf(a.out, "Paramitas: %s\n", strings.Join(resp.Paramitas, ", "))
	return nil
}
