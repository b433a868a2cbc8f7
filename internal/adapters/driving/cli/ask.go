package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	smtpnotifier "github.com/custodia-labs/askdoc-cli/internal/adapters/driven/notifier/smtp"
	"github.com/custodia-labs/askdoc-cli/internal/core/domain"
	"github.com/custodia-labs/askdoc-cli/internal/core/ports/driven"
)

// DefaultEmailSubject is used when --email-subject is not given.
const DefaultEmailSubject = "Response from askdoc"

var (
	askEmailTo      string
	askEmailSubject string
	askShowSources  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieves the most relevant passages for the question and asks the
language model to answer using them as context. The answer can
optionally be sent by email.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askEmailTo, "email-to", "", "send the answer to this email address")
	askCmd.Flags().StringVar(&askEmailSubject, "email-subject", DefaultEmailSubject, "subject for the emailed answer")
	askCmd.Flags().BoolVar(&askShowSources, "show-sources", false, "print the retrieved passages")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := context.Background()
	pingOllama(ctx)

	answer, err := queryService.Answer(ctx, args[0])
	if errors.Is(err, domain.ErrEmptyInput) {
		cmd.Println("Ask something!")
		return nil
	}
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if answer.Content == "" {
		cmd.Println("No response generated.")
		return nil
	}

	cmd.Println(answer.Content)

	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println("\nSources:")
		for i, src := range answer.Sources {
			cmd.Printf("  [%d] %s #%d (%.4f)\n", i+1, src.DocumentName, src.ChunkIndex, src.Score)
		}
	}

	if askEmailTo != "" {
		return emailAnswer(ctx, cmd, answer)
	}
	return nil
}

// emailAnswer delivers the generated answer by email, prompting for the
// SMTP password when it is not configured.
func emailAnswer(ctx context.Context, cmd *cobra.Command, answer *domain.Answer) error {
	smtpCfg := smtpnotifier.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
	}

	if smtpCfg.Password == "" {
		password, err := promptPassword(cmd, fmt.Sprintf("SMTP password for %s: ", smtpCfg.Username))
		if err != nil {
			return err
		}
		smtpCfg.Password = password
	}

	notifier := smtpnotifier.New(smtpCfg)
	msg := driven.Message{
		Recipient: askEmailTo,
		Subject:   askEmailSubject,
		Body:      answer.Content,
	}
	if err := notifier.Send(ctx, msg); err != nil {
		return fmt.Errorf("email delivery failed: %w", err)
	}

	cmd.Printf("Email sent to %s.\n", askEmailTo)
	return nil
}

// promptPassword reads a password from the terminal without echo.
func promptPassword(cmd *cobra.Command, prompt string) (string, error) {
	cmd.Print(prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(password), nil
}
