package cli

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/urbanmobility/internal/models"
)

const scootersUsage = "scooters list|search <term>|show <id>|add|update <id>|delete <id>"

func (a *App) Scooters(ctx context.Context, args []string) error {
	switch {
	case len(args) == 1 && args[0] == "list":
		return a.listScooters(ctx)
	case len(args) == 1 && args[0] == "add":
		return a.addScooter(ctx)
	case len(args) >= 2 && args[0] == "search":
		return a.searchScooters(ctx, strings.Join(args[1:], " "))
	case len(args) != 2:
		return usage(scootersUsage)
	}

	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	switch args[0] {
	case "show":
		return a.showScooter(ctx, id)
	case "update":
		return a.updateScooter(ctx, id)
	case "delete":
		return a.deleteScooter(ctx, id)
	}
	return usage(scootersUsage)
}

func (a *App) printScooters(list []models.Scooter) error {
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No scooters.")
		return nil
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tMODEL\tSERIAL\tSOC\tLOCATION\tOUT OF SERVICE")
	for _, sc := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%s\t%t\n",
			sc.ID, sc.Brand, sc.Model, sc.SerialNumber, sc.StateOfCharge, sc.Location, sc.OutOfService)
	}
	return tw.Flush()
}

func (a *App) listScooters(ctx context.Context) error {
	list, err := a.scooters.List(ctx)
	if err != nil {
		return err
	}
	return a.printScooters(list)
}

func (a *App) searchScooters(ctx context.Context, term string) error {
	list, err := a.scooters.Search(ctx, term)
	if err != nil {
		return err
	}
	return a.printScooters(list)
}

func (a *App) showScooter(ctx context.Context, id int64) error {
	sc, err := a.scooters.Get(ctx, id)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", sc.ID)
	fmt.Fprintf(tw, "Brand:\t%s\n", sc.Brand)
	fmt.Fprintf(tw, "Model:\t%s\n", sc.Model)
	fmt.Fprintf(tw, "Serial number:\t%s\n", sc.SerialNumber)
	fmt.Fprintf(tw, "Top speed:\t%d km/h\n", sc.TopSpeed)
	fmt.Fprintf(tw, "Battery capacity:\t%d Wh\n", sc.BatteryCapacity)
	fmt.Fprintf(tw, "State of charge:\t%d%%\n", sc.StateOfCharge)
	fmt.Fprintf(tw, "Target range SoC:\t%s\n", sc.TargetRangeStateOfCharge)
	fmt.Fprintf(tw, "Location:\t%s\n", sc.Location)
	fmt.Fprintf(tw, "Out of service:\t%t\n", sc.OutOfService)
	fmt.Fprintf(tw, "Mileage:\t%d km\n", sc.Mileage)
	fmt.Fprintf(tw, "Last maintenance:\t%s\n", sc.LastMaintenance.String)
	fmt.Fprintf(tw, "In service since:\t%s\n", sc.InServiceDate)
	return tw.Flush()
}

func (a *App) addScooter(ctx context.Context) error {
	var (
		in  models.Scooter
		err error
	)
	if in.Brand, err = GetSimpleText(a.in, "Brand", a.out); err != nil {
		return err
	}
	if in.Model, err = GetSimpleText(a.in, "Model", a.out); err != nil {
		return err
	}
	if in.SerialNumber, err = GetSimpleText(a.in, "Serial number", a.out); err != nil {
		return err
	}
	if in.TopSpeed, err = getInt(a.in, "Top speed (km/h)", 0, a.out); err != nil {
		return err
	}
	if in.BatteryCapacity, err = getInt(a.in, "Battery capacity (Wh)", 0, a.out); err != nil {
		return err
	}
	if in.StateOfCharge, err = getInt(a.in, "State of charge (%)", 100, a.out); err != nil {
		return err
	}
	if in.TargetRangeStateOfCharge, err = GetSimpleText(a.in, "Target range SoC", a.out); err != nil {
		return err
	}
	if in.Location, err = GetSimpleText(a.in, "Location", a.out); err != nil {
		return err
	}
	if in.Mileage, err = getInt(a.in, "Mileage (km)", 0, a.out); err != nil {
		return err
	}

	sc, err := a.scooters.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Scooter added with id %d.\n", sc.ID)
	return nil
}

func (a *App) updateScooter(ctx context.Context, id int64) error {
	sc, err := a.scooters.Get(ctx, id)
	if err != nil {
		return err
	}

	t := models.ScooterTelemetry{LastMaintenance: sc.LastMaintenance}
	if t.StateOfCharge, err = getInt(a.in, "State of charge (%)", sc.StateOfCharge, a.out); err != nil {
		return err
	}
	if t.Location, err = getOptional(a.in, "Location", sc.Location, a.out); err != nil {
		return err
	}
	if t.OutOfService, err = getBool(a.in, "Out of service", sc.OutOfService, a.out); err != nil {
		return err
	}
	if t.Mileage, err = getInt(a.in, "Mileage (km)", sc.Mileage, a.out); err != nil {
		return err
	}
	lm, err := getOptional(a.in, "Last maintenance", sc.LastMaintenance.String, a.out)
	if err != nil {
		return err
	}
	t.LastMaintenance = sql.NullString{String: lm, Valid: lm != ""}

	if err := a.scooters.UpdateTelemetry(ctx, id, t); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Scooter updated.")
	return nil
}

func (a *App) deleteScooter(ctx context.Context, id int64) error {
	ok, err := confirm(a.in, fmt.Sprintf("Delete scooter %d?", id), a.out)
	if err != nil || !ok {
		return err
	}
	if err := a.scooters.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Scooter deleted.")
	return nil
}
