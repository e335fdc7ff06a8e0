// Package cli is the interactive terminal front end. It reads one choice per
// line, prompts for the fields an operation needs and prints the outcome.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"todo/task"
)

// errQuit ends the menu loop without reporting an error
var errQuit = errors.New("quit")

// Option configures a Menu
type Option func(*Menu) error

// WithLogger sets the logger used for operation failures
func WithLogger(logger *zap.Logger) Option {
	return func(m *Menu) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		m.logger = logger
		return nil
	}
}

// WithDefaultSort sets the order used when a listing prompt is left blank
func WithDefaultSort(key task.SortKey) Option {
	return func(m *Menu) error {
		if _, err := task.ParseSortKey(string(key)); err != nil {
			return err
		}
		m.defaultSort = key
		return nil
	}
}

// WithDueSoonDays sets the reminder look-ahead window
func WithDueSoonDays(days int) Option {
	return func(m *Menu) error {
		if days < 0 {
			return fmt.Errorf("due soon days must be non-negative, got %d", days)
		}
		m.dueSoonDays = days
		return nil
	}
}

// WithColor enables or disables ANSI styling. Colour is also dropped when
// the output is not a terminal.
func WithColor(enabled bool) Option {
	return func(m *Menu) error {
		m.color = enabled
		return nil
	}
}

type menuItem struct {
	key    string
	label  string
	action func() error
}

// Menu drives a task.Service from line-oriented input
type Menu struct {
	svc    *task.Service
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
	styles styles
	items  []menuItem

	defaultSort task.SortKey
	dueSoonDays int
	color       bool
}

// NewMenu creates a menu reading from in and writing to out
func NewMenu(svc *task.Service, in io.Reader, out io.Writer, opts ...Option) (*Menu, error) {
	if svc == nil {
		return nil, fmt.Errorf("task service cannot be nil")
	}

	m := &Menu{
		svc:         svc,
		in:          bufio.NewScanner(in),
		out:         out,
		logger:      zap.NewNop(),
		dueSoonDays: task.DefaultDueSoonDays,
		color:       true,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}

	m.styles = newStyles(out, m.color)
	m.items = []menuItem{
		{key: "1", label: "Add task", action: m.addTask},
		{key: "2", label: "List tasks", action: m.listTasks},
		{key: "3", label: "Update task", action: m.updateTask},
		{key: "4", label: "Delete task", action: m.deleteTask},
		{key: "5", label: "Complete task", action: m.completeTask},
		{key: "6", label: "Reopen task", action: m.reopenTask},
		{key: "7", label: "Search tasks", action: m.searchTasks},
		{key: "8", label: "Filter tasks", action: m.filterTasks},
		{key: "9", label: "Manage tags", action: m.manageTags},
		{key: "10", label: "Set due date", action: m.setDueDate},
		{key: "11", label: "Set recurrence", action: m.setRecurrence},
		{key: "12", label: "Reminders", action: m.showReminders},
		{key: "13", label: "Statistics", action: m.showStats},
		{key: "0", label: "Quit", action: func() error { return errQuit }},
	}

	return m, nil
}

// Run shows the menu until the user quits or input ends. Operation failures
// are reported and the loop continues; only a read error is returned.
func (m *Menu) Run() error {
	for {
		m.printMenu()

		choice, ok := m.prompt("Choose an option")
		if !ok {
			m.printf("\n")
			return m.in.Err()
		}

		choice = strings.ToLower(choice)
		if choice == "q" || choice == "quit" {
			choice = "0"
		}

		item, found := m.lookup(choice)
		if !found {
			m.failure("unknown option %q", choice)
			continue
		}

		err := m.dispatch(item)
		if errors.Is(err, errQuit) {
			m.printf("%s\n", m.styles.header.Render("Goodbye!"))
			return nil
		}
		if errors.Is(err, io.EOF) {
			m.printf("\n")
			return m.in.Err()
		}
		if err != nil {
			m.failure("%v", err)
			m.logger.Warn("Menu operation failed",
				zap.String("operation", item.label),
				zap.Error(err),
			)
		}
	}
}

// dispatch runs one action, turning a panic into an error so the loop survives it
func (m *Menu) dispatch(item menuItem) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			m.logger.Error("Menu operation panicked",
				zap.String("operation", item.label),
				zap.Any("panic", recovered),
				zap.ByteString("stack", debug.Stack()),
			)
			err = fmt.Errorf("unexpected error: %v", recovered)
		}
	}()
	return item.action()
}

// ShowReminders prints the reminder summary when there is anything to show
func (m *Menu) ShowReminders() {
	r := m.svc.Reminders(m.dueSoonDays)
	if r.Empty() {
		return
	}
	m.header("Reminders")
	m.renderReminders(r)
}

func (m *Menu) printMenu() {
	m.header("Todo")
	for _, item := range m.items {
		m.printf("%s %s\n", m.styles.menuKey.Render(fmt.Sprintf("%3s.", item.key)), item.label)
	}
}

func (m *Menu) lookup(key string) (menuItem, bool) {
	for _, item := range m.items {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}

// prompt prints label and reads one trimmed line. It returns false at end of input.
func (m *Menu) prompt(label string) (string, bool) {
	m.printf("%s: ", label)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(m.in.Text()), true
}

// ask is prompt for use inside an action, mapping end of input to io.EOF
func (m *Menu) ask(label string) (string, error) {
	s, ok := m.prompt(label)
	if !ok {
		return "", io.EOF
	}
	return s, nil
}

func (m *Menu) askID() (int64, error) {
	s, err := m.ask("Task ID")
	if err != nil {
		return 0, err
	}
	return ParseID(s)
}
