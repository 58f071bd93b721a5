package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/cmd/far/ui"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/store"
	"github.com/BreadOcT/FAR-NEW-BACKEND-sub001/internal/workflow"
)

var (
	verifyCode     string
	cancelYes      bool
	contactCourier bool
	contactOpen    bool
)

// linePrompter answers workflow prompts from a line-oriented reader. Preset
// answers skip the prompt.
type linePrompter struct {
	in        *bufio.Reader
	out       io.Writer
	code      string
	assumeYes bool
}

func newLinePrompter(in io.Reader, out io.Writer) *linePrompter {
	return &linePrompter{in: bufio.NewReader(in), out: out}
}

func (p *linePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptCode implements workflow.Prompter. An empty line declines.
func (p *linePrompter) PromptCode(ctx context.Context, req workflow.CodeRequest) (string, bool, error) {
	if p.code != "" {
		return p.code, true, nil
	}
	fmt.Fprintf(p.out, "Kode verifikasi untuk %s (kosongkan untuk batal): ", req.OrderID)
	line, err := p.readLine()
	if err != nil {
		return "", false, err
	}
	return line, line != "", nil
}

// Confirm implements workflow.Prompter.
func (p *linePrompter) Confirm(ctx context.Context, req workflow.ConfirmRequest) (bool, error) {
	if p.assumeYes {
		return true, nil
	}
	fmt.Fprintf(p.out, "%s [y/N]: ", req.Message)
	line, err := p.readLine()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "ya", "yes":
		return true, nil
	}
	return false, nil
}

// printNotifier writes notifications as single lines.
func printNotifier(out io.Writer) workflow.Notifier {
	return workflow.NotifierFunc(func(n workflow.Notification) {
		prefix := map[workflow.NoticeLevel]string{
			workflow.NoticeSuccess: "✓",
			workflow.NoticeInfo:    "•",
			workflow.NoticeWarning: "!",
			workflow.NoticeError:   "✗",
		}[n.Level]
		fmt.Fprintf(out, "%s %s\n", prefix, n.Message)
	})
}

// browserContacter opens contact links with the platform's URL handler.
type browserContacter struct{}

func (browserContacter) Contact(_ context.Context, phone, message string) error {
	link := workflow.ContactURL(phone, message)
	var c *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		c = exec.Command("open", link)
	case "windows":
		c = exec.Command("rundll32", "url.dll,FileProtocolHandler", link)
	default:
		c = exec.Command("xdg-open", link)
	}
	if err := c.Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", link, err)
	}
	go func() { _ = c.Wait() }()
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := findOrder(ctx, s, args[0])
	if err != nil {
		return err
	}

	prompter := newLinePrompter(stdin, os.Stdout)
	prompter.code = verifyCode

	flow := workflow.New(view, workflowOptions(s, printNotifier(os.Stdout), nil))
	out, err := flow.RunVerify(ctx, prompter)
	if err != nil {
		return err
	}
	if out.MutationErr != nil {
		return out.MutationErr
	}
	if out.Mutation == nil {
		fmt.Println("Verifikasi dibatalkan.")
		return nil
	}
	logger.Info("order verified", zap.String("order", view.ID), zap.String("mutation", out.Mutation.ID))
	return nil
}

func runCancel(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := findOrder(ctx, s, args[0])
	if err != nil {
		return err
	}

	prompter := newLinePrompter(stdin, os.Stdout)
	prompter.assumeYes = cancelYes

	flow := workflow.New(view, workflowOptions(s, printNotifier(os.Stdout), nil))
	out, err := flow.RunCancel(ctx, prompter)
	if err != nil {
		return err
	}
	if out.MutationErr != nil {
		return out.MutationErr
	}
	if out.Mutation == nil {
		fmt.Println("Pesanan tidak dibatalkan.")
		return nil
	}
	logger.Info("order cancelled", zap.String("order", view.ID), zap.String("mutation", out.Mutation.ID))
	return nil
}

func runContact(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetStoreTimeout())
	defer cancel()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	view, err := findOrder(ctx, s, args[0])
	if err != nil {
		return err
	}
	person := view.Receiver
	if contactCourier {
		if view.Courier == nil {
			return fmt.Errorf("order %s has no courier", view.ID)
		}
		person = *view.Courier
	}
	msg := ui.ContactMessage(person.Name, view.FoodName)
	fmt.Println(workflow.ContactURL(person.Phone, msg))
	if contactOpen {
		return browserContacter{}.Contact(ctx, person.Phone, msg)
	}
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	recs, err := store.ReadClaimsFile(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.GetStoreTimeout())
	defer cancel()

	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer s.Close()

	n, err := store.Seed(ctx, s, recs)
	if err != nil {
		return fmt.Errorf("seeded %d of %d claims: %w", n, len(recs), err)
	}
	logger.Info("claims seeded", zap.Int("count", n), zap.String("driver", cfg.Store.Driver))
	fmt.Printf("Seeded %d claims into the %s store.\n", n, cfg.Store.Driver)
	return nil
}
