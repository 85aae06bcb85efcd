package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Save(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Get(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
}

const helpText = `Available commands:
  save <sceneId> <file> [name]  encrypt and upload a scene
  new <file> [name]             upload under a random scene id
  get <sceneId> <file>          download and decrypt a scene
  (l)ist                        list scenes
  delete <sceneId>              delete a scene
  exit | quit                   leave the program`

// runREPL reads commands line by line from scanner and dispatches them to a.
// Handler errors are printed and the loop continues. The loop exits on
// scanner EOF, on "exit"/"quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "scenectl (%s)> ", statusFn())
		if !scanner.Scan() {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			fmt.Fprintln(w, helpText)
		case "save":
			err = a.Save(ctx, args)
		case "new":
			err = a.New(ctx, args)
		case "get":
			err = a.Get(ctx, args)
		case "l", "list":
			err = a.List(ctx)
		case "delete":
			err = a.Delete(ctx, args)
		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return
		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		if err != nil {
			fmt.Fprintln(w, "Error:", err)
		}
	}
}
