package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pantry-planner/internal/app"
	"pantry-planner/internal/config"
	"pantry-planner/internal/database"
	"pantry-planner/internal/inventory"
	"pantry-planner/internal/metrics"
	"pantry-planner/internal/plan"
	"pantry-planner/internal/suggest"
)

func main() {
	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.NewDB(cfg.DatabasePath, cfg.TxAttempts)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	provider, err := suggest.NewGeminiProvider(ctx, cfg.GeminiAPIKey)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini provider: %v", err)
	}
	defer provider.Close()

	metricsStore := metrics.NewStore(db.SQL)

	application := app.NewApp(cfg, db, provider, metricsStore)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "create":
		createCmd := flag.NewFlagSet("create", flag.ExitOnError)
		user := createCmd.String("user", "", "User the plan belongs to")
		week := createCmd.String("week", "", "Week start date (YYYY-MM-DD)")
		cartFile := createCmd.String("cart", "", "Path to the cart JSON payload")
		createCmd.Parse(os.Args[2:])

		weekStart, err := time.Parse("2006-01-02", *week)
		if err != nil {
			log.Fatalf("Invalid -week value: %v", err)
		}
		cartJSON := readCart(*cartFile)

		res, err := application.CreatePlan(ctx, *user, weekStart, cartJSON)
		if err != nil {
			log.Fatalf("Create failed: %v", err)
		}
		for _, w := range res.Warnings {
			fmt.Printf("Warning: %s\n", w)
		}
		fmt.Printf("Created plan %s (%d pool entries, %d unit mismatches)\n",
			res.Plan.PublicID, res.PoolReport.EntriesCreated, len(res.PoolReport.UnitMismatches))

	case "ingest":
		ingestCmd := flag.NewFlagSet("ingest", flag.ExitOnError)
		planRef := ingestCmd.String("plan", "", "Public plan ID")
		cartFile := ingestCmd.String("cart", "", "Path to the cart JSON payload")
		replace := ingestCmd.Bool("replace", false, "Replace the pool instead of appending")
		ingestCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		mode := inventory.ModeAppend
		if *replace {
			mode = inventory.ModeReplace
		}
		res, err := application.IngestCart(ctx, p.ID, readCart(*cartFile), mode)
		if err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}
		fmt.Printf("Ingested cart: %d entries created, %d updated\n",
			res.PoolReport.EntriesCreated, res.PoolReport.EntriesUpdated)

	case "plan-week":
		weekCmd := flag.NewFlagSet("plan-week", flag.ExitOnError)
		planRef := weekCmd.String("plan", "", "Public plan ID")
		preferences := weekCmd.String("preferences", "", "Free-form meal preferences")
		weekCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		outcomes, err := application.PlanWeek(ctx, p.ID, *preferences)
		if err != nil {
			log.Fatalf("Plan-week failed: %v", err)
		}
		fmt.Println("\n=== WEEKLY MEAL PLAN ===")
		for _, o := range outcomes {
			switch {
			case o.Skipped:
				fmt.Printf("% -10s: (already assigned)\n", o.Day)
			case o.Err != nil:
				fmt.Printf("% -10s: could not fill (%v)\n", o.Day, o.Err)
			default:
				fmt.Printf("% -10s: %s\n", o.Day, mealName(o.Assignment.Meal))
			}
		}

	case "assign":
		assignCmd := flag.NewFlagSet("assign", flag.ExitOnError)
		planRef := assignCmd.String("plan", "", "Public plan ID")
		day := assignCmd.String("day", "", "Day of week (e.g. Monday)")
		preferences := assignCmd.String("preferences", "", "Free-form meal preferences")
		assignCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		a, err := application.AssignDay(ctx, p.ID, *day, *preferences)
		if err != nil {
			log.Fatalf("Assign failed: %v", err)
		}
		fmt.Printf("Assigned %s: %s\n", a.Day, mealName(a.Meal))

	case "regenerate":
		regenCmd := flag.NewFlagSet("regenerate", flag.ExitOnError)
		planRef := regenCmd.String("plan", "", "Public plan ID")
		day := regenCmd.String("day", "", "Day of week (e.g. Monday)")
		preferences := regenCmd.String("preferences", "", "Free-form meal preferences")
		regenCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		a, err := application.RegenerateDay(ctx, p.ID, *day, *preferences)
		if err != nil {
			log.Fatalf("Regenerate failed: %v", err)
		}
		fmt.Printf("Regenerated %s: %s\n", a.Day, mealName(a.Meal))

	case "lock", "unlock", "unassign":
		dayCmd := flag.NewFlagSet(os.Args[1], flag.ExitOnError)
		planRef := dayCmd.String("plan", "", "Public plan ID")
		day := dayCmd.String("day", "", "Day of week (e.g. Monday)")
		dayCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		switch os.Args[1] {
		case "lock":
			err = application.LockDay(ctx, p.ID, *day)
		case "unlock":
			err = application.UnlockDay(ctx, p.ID, *day)
		case "unassign":
			err = application.UnassignDay(ctx, p.ID, *day)
		}
		if err != nil {
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		fmt.Printf("%s %s done\n", os.Args[1], *day)

	case "pool":
		poolCmd := flag.NewFlagSet("pool", flag.ExitOnError)
		planRef := poolCmd.String("plan", "", "Public plan ID")
		poolCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		entries, err := application.PoolEntries(ctx, p.ID)
		if err != nil {
			log.Fatalf("Pool listing failed: %v", err)
		}
		fmt.Println("\n=== INGREDIENT POOL ===")
		for _, e := range entries {
			fmt.Printf("% -24s %s/%s %s\n", e.Name, e.Remaining, e.Total, e.Unit)
		}

	case "status":
		statusCmd := flag.NewFlagSet("status", flag.ExitOnError)
		planRef := statusCmd.String("plan", "", "Public plan ID")
		next := statusCmd.String("set", "", "Advance to this status (complete, archived)")
		statusCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		if *next != "" {
			if err := application.TransitionPlan(ctx, p.ID, plan.Status(*next)); err != nil {
				log.Fatalf("Transition failed: %v", err)
			}
			fmt.Printf("Plan %s is now %s\n", p.PublicID, *next)
			return
		}
		fmt.Printf("Plan %s: user=%s week=%s status=%s\n",
			p.PublicID, p.UserID, p.WeekStart.Format("2006-01-02"), p.Status)
		assignments, err := application.Assignments(ctx, p.ID)
		if err != nil {
			log.Fatalf("Assignment listing failed: %v", err)
		}
		for _, a := range assignments {
			fmt.Printf("% -10s [%s] %s\n", a.Day, a.Status, mealName(a.Meal))
		}

	case "delete":
		deleteCmd := flag.NewFlagSet("delete", flag.ExitOnError)
		planRef := deleteCmd.String("plan", "", "Public plan ID")
		deleteCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		if err := application.DeletePlan(ctx, p.ID); err != nil {
			log.Fatalf("Delete failed: %v", err)
		}
		fmt.Printf("Deleted plan %s\n", p.PublicID)

	case "reconcile":
		reconcileCmd := flag.NewFlagSet("reconcile", flag.ExitOnError)
		planRef := reconcileCmd.String("plan", "", "Public plan ID")
		reconcileCmd.Parse(os.Args[2:])

		p := resolvePlan(ctx, application, *planRef)
		fixed, err := application.ReconcilePool(ctx, p.ID)
		if err != nil {
			log.Fatalf("Reconcile failed: %v", err)
		}
		fmt.Printf("Reconciled %d pool entries\n", fixed)

	case "metrics":
		metricsCmd := flag.NewFlagSet("metrics", flag.ExitOnError)
		days := metricsCmd.Int("days", 7, "Show operations for the last N days")
		metricsCmd.Parse(os.Args[2:])

		rows, err := metricsStore.GetDailyOperations(*days)
		if err != nil {
			log.Fatalf("Metrics query failed: %v", err)
		}
		for _, r := range rows {
			fmt.Printf("%s % -16s count=%d avg=%.0fms\n", r.Date, r.Operation, r.Count, r.AvgLatencyMS)
		}

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		if err := metricsStore.Cleanup(*days); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Println("Removed old metric records.")

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func readCart(path string) []byte {
	if path == "" {
		log.Fatal("Missing -cart flag")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read cart payload: %v", err)
	}
	return data
}

func resolvePlan(ctx context.Context, application *app.App, publicID string) *plan.WeeklyPlan {
	if publicID == "" {
		log.Fatal("Missing -plan flag")
	}
	p, err := application.Plans().GetByPublicID(ctx, publicID)
	if err != nil {
		log.Fatalf("Failed to look up plan: %v", err)
	}
	if p == nil {
		log.Fatalf("No plan with ID %s", publicID)
	}
	return p
}

func mealName(meal json.RawMessage) string {
	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(meal, &payload); err == nil && payload.Name != "" {
		return payload.Name
	}
	return string(meal)
}

func printUsage() {
	fmt.Println("Usage: pantry-planner <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  create             Start a weekly plan from a cart payload")
	fmt.Println("  ingest             Re-ingest a cart into an existing plan")
	fmt.Println("  plan-week          Assign meals to every open day of the week")
	fmt.Println("  assign             Assign a meal to a single day")
	fmt.Println("  regenerate         Replace the meal assigned to a day")
	fmt.Println("  lock               Pin a day's meal against regeneration")
	fmt.Println("  unlock             Release a locked day")
	fmt.Println("  unassign           Remove a day's meal and release its pool share")
	fmt.Println("  pool               Show a plan's ingredient pool")
	fmt.Println("  status             Show or advance a plan's status")
	fmt.Println("  delete             Remove a plan and everything it owns")
	fmt.Println("  reconcile          Recompute drifted pool quantities")
	fmt.Println("  metrics            Show per-operation daily counts")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
