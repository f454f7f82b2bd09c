package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/learnhub/lms-backend/internal/calendar"
	"github.com/learnhub/lms-backend/internal/config"
	"github.com/learnhub/lms-backend/internal/logger"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Open Local Calendar Store ─────────────────────────────────────
	blobs, err := calendar.OpenSQLiteStore(cfg.CalendarDBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.CalendarDBPath).Msg("Failed to open calendar store")
	}
	defer blobs.Close()

	store := calendar.NewEventStore(blobs, log)

	var opts []calendar.ViewOption
	if cfg.CalendarYear != 0 {
		opts = append(opts, calendar.WithYear(cfg.CalendarYear))
	}
	view, err := calendar.NewTeacherView(ctx, store, log, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to mount calendar view")
	}
	defer view.Close()

	// ─── CLI Loop ──────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Academic Calendar ===")
	fmt.Println("Commands: show, next, prev, add, update <id>, delete <id>, quit")
	printMonth(view)

	for {
		fmt.Print("calendar> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "show":
			view.Refresh(ctx)
			printMonth(view)
		case "next":
			view.Next()
			printMonth(view)
		case "prev":
			view.Prev()
			printMonth(view)
		case "add":
			evt := promptEvent(reader, calendar.Event{})
			stored, err := view.AddEvent(ctx, evt)
			if err != nil {
				printMutationError(err)
				continue
			}
			fmt.Printf("Added event %s\n", stored.ID)
		case "update":
			if len(fields) != 2 {
				fmt.Println("Usage: update <id>")
				continue
			}
			current, ok := findEvent(view.Events(), fields[1])
			if !ok {
				fmt.Println("No such event")
				continue
			}
			evt := promptEvent(reader, current)
			evt.ID = current.ID
			if err := view.UpdateEvent(ctx, evt); err != nil {
				printMutationError(err)
				continue
			}
			fmt.Println("Updated")
		case "delete":
			if len(fields) != 2 {
				fmt.Println("Usage: delete <id>")
				continue
			}
			removed, err := view.DeleteEvent(ctx, fields[1], func() bool {
				return promptLine(reader, "Delete this event? (y/N): ") == "y"
			})
			if err != nil {
				printMutationError(err)
				continue
			}
			if removed {
				fmt.Println("Deleted")
			} else {
				fmt.Println("Nothing deleted")
			}
		case "quit", "exit":
			return
		default:
			fmt.Printf("Unknown command: %s\n", fields[0])
		}
	}
}

func printMonth(view *calendar.TeacherView) {
	fmt.Printf("\n  %s %d\n", calendar.MonthName(view.Month()), view.Year())
	fmt.Println("  Su Mo Tu We Th Fr Sa")

	fmt.Print("  ")
	for i, cell := range view.Grid() {
		if i > 0 && i%7 == 0 {
			fmt.Print("\n  ")
		}
		if cell.Empty() {
			fmt.Print("   ")
			continue
		}
		marker := " "
		if len(view.EventsOn(cell.Day)) > 0 {
			marker = "*"
		}
		fmt.Printf("%2d%s", cell.Day, marker)
	}
	fmt.Println()

	upcoming := view.Upcoming()
	if len(upcoming) == 0 {
		fmt.Println("\n  No upcoming events")
		return
	}
	fmt.Println("\n  Upcoming:")
	for _, evt := range upcoming {
		fmt.Printf("  %s  [%s] %s (%s)\n", evt.Date, evt.EventType, evt.Title, evt.ID)
	}
}

// promptEvent fills in event fields interactively. An empty answer keeps the
// base value, so updates only retype what changes.
func promptEvent(reader *bufio.Reader, base calendar.Event) calendar.Event {
	evt := base

	if v := promptLine(reader, fmt.Sprintf("Title [%s]: ", base.Title)); v != "" {
		evt.Title = v
	}
	if v := promptLine(reader, fmt.Sprintf("Date YYYY-MM-DD [%s]: ", base.Date)); v != "" {
		evt.Date = v
	}
	if v := promptLine(reader, fmt.Sprintf("Type (assignment/deadline/exam/class) [%s]: ", base.EventType)); v != "" {
		evt.EventType = calendar.EventType(v)
	}
	if v := promptLine(reader, fmt.Sprintf("Description [%s]: ", base.Description)); v != "" {
		evt.Description = v
	}
	if v := promptLine(reader, fmt.Sprintf("Start time [%s]: ", base.StartTime)); v != "" {
		evt.StartTime = v
	}
	if v := promptLine(reader, fmt.Sprintf("End time [%s]: ", base.EndTime)); v != "" {
		evt.EndTime = v
	}
	return evt
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

func findEvent(events []calendar.Event, id string) (calendar.Event, bool) {
	for _, evt := range events {
		if evt.ID == id {
			return evt, true
		}
	}
	return calendar.Event{}, false
}

func printMutationError(err error) {
	switch {
	case errors.Is(err, calendar.ErrInvalidEvent):
		fmt.Println("Invalid event: title, type and date (YYYY-MM-DD) are required")
	case errors.Is(err, calendar.ErrConflict):
		fmt.Println("Someone else changed the calendar. Run 'show' and retry.")
	case errors.Is(err, calendar.ErrEventNotFound):
		fmt.Println("No such event")
	default:
		fmt.Printf("Error: %v\n", err)
	}
}
