package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Turtwiggy/Dwarf-and-Blade/internal/config"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/infrastructure/storage"
	"github.com/Turtwiggy/Dwarf-and-Blade/internal/scenario"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	app := os.Getenv("BM_APP")
	if app == "" {
		app = config.Default().Storage.AppName
	}
	store, err := storage.Open(app)
	if err != nil {
		fmt.Printf("Cannot open layout store %q: %v\n", app, err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "list":
		list(store)
	case "export":
		if len(os.Args) < 3 {
			fmt.Println("Usage: layoututil export <name> [file.yaml]")
			return
		}
		out := ""
		if len(os.Args) > 3 {
			out = os.Args[3]
		}
		export(store, os.Args[2], out)
	case "import":
		if len(os.Args) < 4 {
			fmt.Println("Usage: layoututil import <file.yaml> <name>")
			return
		}
		importScenario(store, os.Args[2], os.Args[3])
	default:
		printHelp()
	}
}

func list(store *storage.Store) {
	entries, err := store.List()
	if err != nil {
		fmt.Printf("List failed: %v\n", err)
		os.Exit(1)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tBATTLE\tSIZE\tRECORDS\tSAVED")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%d\t%s\n", e.Name, e.MapID, e.Dim.W, e.Dim.H, e.Records, e.SavedAt.Format("2006-01-02 15:04:05"))
	}
	tw.Flush()
}

// export writes the layout as scenario YAML to out, or stdout.
func export(store *storage.Store, name, out string) {
	snap, err := store.Load(name)
	if err != nil {
		fmt.Printf("Load failed: %v\n", err)
		os.Exit(1)
	}
	data, err := scenario.FromLayout(name, snap).Marshal()
	if err != nil {
		fmt.Printf("Encode failed: %v\n", err)
		os.Exit(1)
	}
	if out == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Printf("Write failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Layout %q written to %s\n", name, out)
}

// importScenario builds a scenario file and stores its layout under name.
func importScenario(store *storage.Store, path, name string) {
	sc, err := scenario.Load(path)
	if err != nil {
		fmt.Printf("Invalid scenario: %v\n", err)
		os.Exit(1)
	}
	b, err := sc.Build()
	if err != nil {
		fmt.Printf("Build failed: %v\n", err)
		os.Exit(1)
	}
	if err := store.Save(name, b.ToLayout()); err != nil {
		fmt.Printf("Save failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Scenario %s stored as layout %q\n", path, name)
}

func printHelp() {
	fmt.Println("Layout Utility")
	fmt.Println("Usage:")
	fmt.Println("  layoututil list                         - List saved layouts")
	fmt.Println("  layoututil export <name> [file.yaml]    - Write a layout as a scenario")
	fmt.Println("  layoututil import <file.yaml> <name>    - Store a scenario as a layout")
	fmt.Println("Environment: BM_APP selects the storage app name.")
}
