package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

const travellersUsage = "travellers list|search <term>|show <id>|add|edit <id>|delete <id>"

func (a *App) Travellers(ctx context.Context, args []string) error {
	switch {
	case len(args) == 1 && args[0] == "list":
		return a.listTravellers(ctx)
	case len(args) == 1 && args[0] == "add":
		return a.addTraveller(ctx)
	case len(args) >= 2 && args[0] == "search":
		return a.searchTravellers(ctx, strings.Join(args[1:], " "))
	case len(args) != 2:
		return usage(travellersUsage)
	}

	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "show":
		return a.showTraveller(ctx, id)
	case "edit":
		return a.editTraveller(ctx, id)
	case "delete":
		return a.deleteTraveller(ctx, id)
	}
	return usage(travellersUsage)
}

type travellerField struct {
	label string
	value *string
}

func travellerFields(t *models.Traveller) []travellerField {
	return []travellerField{
		{"First name", &t.FirstName},
		{"Last name", &t.LastName},
		{"Birthday", &t.Birthday},
		{"Gender", &t.Gender},
		{"Street", &t.Street},
		{"House number", &t.HouseNumber},
		{"Zip code", &t.ZipCode},
		{"City", &t.City},
		{"Email", &t.Email},
		{"Phone", &t.Phone.String},
		{"Driving license", &t.DrivingLicense.String},
	}
}

// promptTraveller asks for every field, offering the current value.
func (a *App) promptTraveller(t *models.Traveller) error {
	for _, f := range travellerFields(t) {
		v, err := getOptional(a.in, f.label, *f.value, a.out)
		if err != nil {
			return err
		}
		*f.value = v
	}
	t.Phone = sql.NullString{String: t.Phone.String, Valid: t.Phone.String != ""}
	t.DrivingLicense = sql.NullString{String: t.DrivingLicense.String, Valid: t.DrivingLicense.String != ""}
	return nil
}

func (a *App) printTravellers(list []models.Traveller) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No travellers.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCITY\tEMAIL\tREGISTERED")
	for _, t := range list {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\n", t.ID, t.FirstName, t.LastName, t.City, t.Email, t.RegistrationDate)
	}
	return tw.Flush()
}

func (a *App) listTravellers(ctx context.Context) error {
	list, err := a.travellers.List(ctx)
	if err != nil {
		return err
	}
	return a.printTravellers(list)
}

func (a *App) searchTravellers(ctx context.Context, term string) error {
	list, err := a.travellers.Search(ctx, term)
	if err != nil {
		return err
	}
	return a.printTravellers(list)
}

func (a *App) showTraveller(ctx context.Context, id int64) error {
	t, err := a.travellers.Get(ctx, id)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", t.ID)
	for _, f := range travellerFields(&t) {
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, *f.value)
	}
	fmt.Fprintf(tw, "Registered:\t%s\n", t.RegistrationDate)
	return tw.Flush()
}

func (a *App) addTraveller(ctx context.Context) error {
	var t models.Traveller
	if err := a.promptTraveller(&t); err != nil {
		return err
	}
	added, err := a.travellers.Add(ctx, t)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Traveller added with id %d.\n", added.ID)
	return nil
}

func (a *App) editTraveller(ctx context.Context, id int64) error {
	t, err := a.travellers.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := a.promptTraveller(&t); err != nil {
		return err
	}
	if err := a.travellers.Update(ctx, t); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Traveller updated.")
	return nil
}

func (a *App) deleteTraveller(ctx context.Context, id int64) error {
	ok, err := confirm(a.in, fmt.Sprintf("Delete traveller %d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.travellers.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Traveller deleted.")
	return nil
}
