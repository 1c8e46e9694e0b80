package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/foodshare/foodshare/internal/client/models"
	"github.com/foodshare/foodshare/internal/client/session"
	"github.com/foodshare/foodshare/internal/client/wizard"
)

// statFile is a test seam for os.Stat, used when attaching photos.
var statFile = os.Stat

// NewListing runs the guided listing-creation wizard. A saved draft, if
// any, is restored first and the flow resumes at its first incomplete
// step. The user walks the steps with next/back, may save and leave at
// any point, and publishes from the final preview.
func (a *App) NewListing(ctx context.Context) error {
	if role := a.currentRole(); role != string(session.RoleDonor) {
		printlnFn("Only donors can create listings. Use 'role donor' to switch.")
		return nil
	}

	engine := wizard.New(a.kv, a.api, a.log, wizard.WithSubmitTimeout(a.config.SubmitTimeout))
	engine.Initialize(ctx)
	if engine.DraftLoaded() {
		printlnFn("Resumed your saved draft.")
	}

	for {
		step := engine.Step()
		printlnFn(fmt.Sprintf("--- Step %d of %d: %s ---", int(step)+1, wizard.StepCount, step.Title()))

		if err := a.runStepScreen(ctx, engine, step); err != nil {
			engine.SaveDraft(ctx)
			return err
		}

		action, err := getSimpleText(a.reader, a.stepActions(step), os.Stdout)
		if err != nil {
			engine.SaveDraft(ctx)
			return err
		}

		switch strings.ToLower(action) {
		case "", "next", "n":
			if step == wizard.StepPreview {
				continue
			}
			res := engine.Next()
			if !res.Valid {
				printStepResult(res)
			}
		case "back", "b":
			engine.Previous()
		case "save", "s":
			engine.SaveDraft(ctx)
			printlnFn("Draft saved.")
		case "publish", "p":
			if step != wizard.StepPreview {
				printlnFn("Publishing is available from the preview step.")
				continue
			}
			if done := a.publish(ctx, engine); done {
				return nil
			}
		case "quit", "q":
			engine.SaveDraft(ctx)
			printlnFn("Draft saved, you can resume later with 'new'.")
			return nil
		default:
			printlnFn("Unknown action:", action)
		}
	}
}

func (a *App) stepActions(step wizard.Step) string {
	if step == wizard.StepPreview {
		return "Action: (p)ublish, (b)ack, (s)ave, (q)uit"
	}
	return "Action: (n)ext, (b)ack, (s)ave, (q)uit"
}

// publish submits the listing. Returns true when the wizard is finished
// (either published or aborted for good); false keeps the loop going.
func (a *App) publish(ctx context.Context, engine *wizard.Engine) bool {
	id, err := engine.Submit(ctx)
	if err == nil {
		printlnFn(fmt.Sprintf("Published! Listing id: %s", id))
		return true
	}

	var blocked *wizard.ValidationBlockedError
	if errors.As(err, &blocked) {
		printlnFn(fmt.Sprintf("Cannot publish: step %q is incomplete.", blocked.Step.Title()))
		printStepResult(blocked.Result)
		return false
	}

	var se *wizard.SubmitError
	if errors.As(err, &se) {
		switch se.Kind {
		case wizard.SubmitTimeout:
			printlnFn("Publishing timed out. Your draft is intact, try again.")
		case wizard.SubmitCanceled:
			printlnFn("Publishing was canceled. Your draft is intact.")
		default:
			printlnFn("Publishing failed:", se.Err.Error())
		}
		return false
	}

	if errors.Is(err, wizard.ErrSubmissionInProgress) {
		printlnFn("A submission is already in progress.")
		return false
	}

	a.log.Error(ctx, "publish failed", "error", err)
	return false
}

func printStepResult(res wizard.StepResult) {
	for field, msg := range res.FieldErrors {
		printlnFn(fmt.Sprintf("  %s: %s", field, msg))
	}
	for _, w := range res.Warnings {
		printlnFn("  warning:", w)
	}
}

func (a *App) runStepScreen(ctx context.Context, engine *wizard.Engine, step wizard.Step) error {
	switch step {
	case wizard.StepCategory:
		return a.screenCategory(engine)
	case wizard.StepQuantity:
		return a.screenQuantity(engine)
	case wizard.StepPhotos:
		return a.screenPhotos(engine)
	case wizard.StepExpiration:
		return a.screenExpiration(engine)
	case wizard.StepPickup:
		return a.screenPickup(engine)
	case wizard.StepSafety:
		return a.screenSafety(engine)
	case wizard.StepPreview:
		a.screenPreview(engine)
		return nil
	}
	return nil
}

func (a *App) screenCategory(engine *wizard.Engine) error {
	form := engine.Form()

	options := make([]string, len(models.Categories))
	for i, c := range models.Categories {
		options[i] = string(c)
	}
	picked, err := getChoice(a.reader, "Food category:", options, string(form.Category), os.Stdout)
	if err != nil {
		return err
	}
	if picked != "" {
		engine.SetCategory(models.Category(picked))
	}

	title, err := GetTextDefault(a.reader, "Listing title", form.Title, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetTitle(title)

	desc, err := GetTextDefault(a.reader, "Short description", form.Description, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetDescription(desc)
	return nil
}

func (a *App) screenQuantity(engine *wizard.Engine) error {
	form := engine.Form()

	qty, err := GetTextDefault(a.reader, "Quantity (a number greater than zero)", form.Quantity, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetQuantity(qty)

	options := make([]string, len(models.Units))
	for i, u := range models.Units {
		options[i] = string(u)
	}
	unit, err := getChoice(a.reader, "Unit:", options, string(form.Unit), os.Stdout)
	if err != nil {
		return err
	}
	engine.SetUnit(models.Unit(unit))
	return nil
}

func (a *App) screenPhotos(engine *wizard.Engine) error {
	for {
		form := engine.Form()
		printlnFn(fmt.Sprintf("Photos (%d of %d):", len(form.Photos), models.MaxPhotos))
		for _, p := range form.Photos {
			printlnFn(fmt.Sprintf("  %s  %s (%d bytes)", p.ID, p.Name, p.Size))
		}

		line, err := getSimpleText(a.reader, "add <path>, remove <id>, or done", os.Stdout)
		if err != nil {
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 || parts[0] == "done" {
			return nil
		}

		switch parts[0] {
		case "add":
			if len(parts) < 2 {
				printlnFn("Usage: add <path>")
				continue
			}
			if err := a.attachPhoto(engine, parts[1]); err != nil {
				printlnFn("Cannot attach photo:", err.Error())
			}
		case "remove":
			if len(parts) < 2 {
				printlnFn("Usage: remove <id>")
				continue
			}
			engine.RemovePhoto(parts[1])
		default:
			printlnFn("Unknown action:", parts[0])
		}
	}
}

func (a *App) attachPhoto(engine *wizard.Engine, path string) error {
	info, err := statFile(path)
	if err != nil {
		return err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return engine.AddPhoto(models.Photo{
		Name:     filepath.Base(path),
		Path:     path,
		Size:     info.Size(),
		MIMEType: mimeType,
	})
}

func (a *App) screenExpiration(engine *wizard.Engine) error {
	form := engine.Form()

	if form.Category.Valid() {
		printlnFn(fmt.Sprintf("Typical shelf life for %s: %d days.",
			form.Category, form.Category.SuggestedShelfLifeDays()))
	}

	exp, err := GetTextDefault(a.reader, "Expiration date (YYYY-MM-DD)", form.ExpirationDate, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetExpirationDate(exp)

	best, err := GetTextDefault(a.reader, "Best-by date (YYYY-MM-DD, optional)", form.BestByDate, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetBestByDate(best)
	return nil
}

func (a *App) screenPickup(engine *wizard.Engine) error {
	form := engine.Form()
	loc := form.Location

	fields := []struct {
		prompt string
		value  *string
	}{
		{"Street address", &loc.Address},
		{"City", &loc.City},
		{"State", &loc.State},
		{"ZIP code", &loc.ZipCode},
		{"Contact name", &loc.ContactName},
		{"Contact phone", &loc.ContactPhone},
	}
	for _, f := range fields {
		v, err := GetTextDefault(a.reader, f.prompt, *f.value, os.Stdout)
		if err != nil {
			return err
		}
		*f.value = v
	}
	engine.SetLocation(loc)

	if err := a.toggleLoop(engine, "Pickup time slots (toggle by number, done to finish):",
		func() []toggleRow {
			form := engine.Form()
			rows := make([]toggleRow, len(models.PickupSlots))
			for i, s := range models.PickupSlots {
				rows[i] = toggleRow{label: s.Label(), on: form.HasPickupSlot(s)}
			}
			return rows
		},
		func(i int) { engine.TogglePickupSlot(models.PickupSlots[i]) },
	); err != nil {
		return err
	}

	instr, err := GetTextDefault(a.reader, "Special instructions (optional)", form.SpecialInstructions, os.Stdout)
	if err != nil {
		return err
	}
	engine.SetSpecialInstructions(instr)
	return nil
}

func (a *App) screenSafety(engine *wizard.Engine) error {
	printlnFn("Confirm each required food-safety item:")
	if err := a.toggleLoop(engine, "Safety checklist (toggle by number, done to finish):",
		func() []toggleRow {
			form := engine.Form()
			rows := make([]toggleRow, len(models.SafetyItems))
			for i, item := range models.SafetyItems {
				rows[i] = toggleRow{label: string(item), on: form.HasSafetyItem(item)}
			}
			return rows
		},
		func(i int) { engine.ToggleSafetyItem(models.SafetyItems[i]) },
	); err != nil {
		return err
	}

	return a.toggleLoop(engine, "Certifications (optional, toggle by number, done to finish):",
		func() []toggleRow {
			form := engine.Form()
			rows := make([]toggleRow, len(models.Certifications))
			for i, c := range models.Certifications {
				rows[i] = toggleRow{label: string(c), on: form.HasCertification(c)}
			}
			return rows
		},
		func(i int) { engine.ToggleCertification(models.Certifications[i]) },
	)
}

type toggleRow struct {
	label string
	on    bool
}

// toggleLoop renders a checkbox-style list and flips entries by number
// until the user types done (or just presses Enter).
func (a *App) toggleLoop(engine *wizard.Engine, prompt string, rows func() []toggleRow, toggle func(int)) error {
	for {
		printlnFn(prompt)
		list := rows()
		for i, r := range list {
			mark := " "
			if r.on {
				mark = "x"
			}
			printlnFn(fmt.Sprintf("  [%s] %d. %s", mark, i+1, r.label))
		}

		line, err := getSimpleText(a.reader, "Number to toggle, or done", os.Stdout)
		if err != nil {
			return err
		}
		if line == "" || line == "done" {
			return nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > len(list) {
			printlnFn("Please enter a listed number or done")
			continue
		}
		toggle(n - 1)
	}
}

func (a *App) screenPreview(engine *wizard.Engine) {
	form := engine.Form()

	printlnFn("Review your listing:")
	printlnFn(fmt.Sprintf("  Title:        %s", form.Title))
	printlnFn(fmt.Sprintf("  Category:     %s", form.Category))
	printlnFn(fmt.Sprintf("  Quantity:     %s %s", form.Quantity, form.Unit))
	printlnFn(fmt.Sprintf("  Photos:       %d attached", len(form.Photos)))
	printlnFn(fmt.Sprintf("  Expires:      %s", form.ExpirationDate))
	if form.BestByDate != "" {
		printlnFn(fmt.Sprintf("  Best by:      %s", form.BestByDate))
	}
	printlnFn(fmt.Sprintf("  Pickup at:    %s, %s, %s %s",
		form.Location.Address, form.Location.City, form.Location.State, form.Location.ZipCode))

	slots := make([]string, len(form.PickupSlots))
	for i, s := range form.PickupSlots {
		slots[i] = s.Label()
	}
	printlnFn(fmt.Sprintf("  Time slots:   %s", strings.Join(slots, ", ")))
	printlnFn(fmt.Sprintf("  Safety items: %d of %d confirmed",
		len(form.SafetyChecklist), len(models.RequiredSafetyItems)))
	if form.SpecialInstructions != "" {
		printlnFn(fmt.Sprintf("  Instructions: %s", form.SpecialInstructions))
	}
}
