package commands

import (
	"bufio"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/spf13/pflag"

	"tasksync/internal/controller"
	"tasksync/internal/exitcode"
	"tasksync/internal/output"
	"tasksync/internal/service"
)

func init() {
	Register(&ShellCmd{})
}

const shellHelp = `commands:
  title <text>    set the draft title
  desc <text>     set the draft description
  draft           show the draft
  clear           clear the draft
  add             add the draft
  toggle <ref>    toggle completion (ref: n as listed, or id:ID)
  rm <ref>        delete a task
  reload          reload from the service
  list            print the collection
  help            show this help
  quit            wait for pending operations and exit`

// ShellCmd implements an interactive session over one controller.
// Operations run in the background; the collection is re-rendered whenever
// it changes and no operation is outstanding.
type ShellCmd struct{}

func (c *ShellCmd) Name() string                    { return "shell" }
func (c *ShellCmd) Aliases() []string               { return nil }
func (c *ShellCmd) Synopsis() string                { return "Interactive session" }
func (c *ShellCmd) Usage() string                   { return "tasksync shell" }
func (c *ShellCmd) NeedsBackend() bool              { return true }
func (c *ShellCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		return reportRefError(env.Err, errUnexpectedArg(args[0]))
	}

	s := &session{
		ctx:     ctx,
		env:     env,
		ctl:     env.Controller(),
		out:     output.New(env.Out, output.FormatText, env.Config.Quiet),
		results: make(chan error),
	}
	return s.run()
}

type session struct {
	ctx     context.Context
	env     *Env
	ctl     *controller.Controller
	out     *output.Formatter
	shown   []service.Task
	results chan error
	wg      sync.WaitGroup
}

func (s *session) run() int {
	snaps, unsubscribe := s.ctl.Subscribe()
	defer unsubscribe()

	if err := s.ctl.Load(s.ctx); err != nil {
		s.printError(err)
	}
	s.render(s.ctl.Tasks())

	lines := s.readLines()
	for {
		select {
		case line, ok := <-lines:
			if !ok || !s.handle(line) {
				s.drain(snaps)
				return exitcode.Success
			}
		case err := <-s.results:
			s.printError(err)
		case snap := <-snaps:
			s.maybeRender(snap)
		case <-s.ctx.Done():
			s.drain(snaps)
			return exitcode.Success
		}
	}
}

// handle executes one input line and reports whether to keep reading.
func (s *session) handle(line string) bool {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
	case "title":
		d := s.ctl.Draft()
		s.ctl.SetDraft(rest, d.Description)
	case "desc":
		d := s.ctl.Draft()
		s.ctl.SetDraft(d.Title, rest)
	case "draft":
		d := s.ctl.Draft()
		fmt.Fprintf(s.env.Out, "draft: %q / %q\n", d.Title, d.Description)
	case "clear":
		s.ctl.ResetDraft()
	case "add":
		await(s, s.ctl.AddAsync(s.ctx))
	case "toggle", "done":
		if task, ok := s.lookup(rest); ok {
			await(s, s.ctl.ToggleAsync(s.ctx, task))
		}
	case "rm", "delete":
		if task, ok := s.lookup(rest); ok {
			await(s, s.ctl.RemoveAsync(s.ctx, task.ID))
		}
	case "reload":
		await(s, s.ctl.LoadAsync(s.ctx))
	case "list":
		s.render(s.ctl.Tasks())
	case "help":
		fmt.Fprintln(s.env.Out, shellHelp)
	case "quit", "exit":
		return false
	default:
		fmt.Fprintf(s.env.Err, "error: unknown command: %s\n", verb)
	}
	return true
}

// lookup resolves ref for toggle and rm. Positions count in the list last
// printed, which lags the collection while operations are outstanding; the
// task found there must still be in the collection.
func (s *session) lookup(arg string) (service.Task, bool) {
	ref, err := ParseTaskRef(strings.Fields(arg))
	if err == nil && ref.ID == "" {
		var shown service.Task
		if _, shown, err = resolveTask(s.shown, ref); err == nil {
			ref = TaskRef{ID: shown.ID}
		}
	}
	if err == nil {
		var task service.Task
		if _, task, err = resolveTask(s.ctl.Tasks(), ref); err == nil {
			return task, true
		}
	}
	fmt.Fprintf(s.env.Err, "error: %v\n", err)
	return service.Task{}, false
}

// await forwards the outcome of an async operation to the session loop.
func await[T any](s *session, ch <-chan controller.Result[T]) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		r := <-ch
		s.results <- r.Err
	}()
}

// drain waits for outstanding operations, reporting their errors, then
// renders the final collection.
func (s *session) drain(snaps <-chan controller.Snapshot) {
	idle := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(idle)
	}()

	for {
		select {
		case err := <-s.results:
			s.printError(err)
		case <-snaps:
		case <-idle:
			s.maybeRender(s.ctl.Snapshot())
			return
		}
	}
}

func (s *session) maybeRender(snap controller.Snapshot) {
	if snap.Busy || slices.Equal(snap.Tasks, s.shown) {
		return
	}
	s.render(snap.Tasks)
}

func (s *session) render(tasks []service.Task) {
	s.shown = tasks
	_ = s.out.Tasks(tasks)
}

func (s *session) printError(err error) {
	if err == nil {
		return
	}
	msg, _ := describeError(err)
	fmt.Fprintf(s.env.Err, "error: %s\n", msg)
}

func (s *session) readLines() <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.env.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-s.ctx.Done():
				return
			}
		}
	}()
	return lines
}
