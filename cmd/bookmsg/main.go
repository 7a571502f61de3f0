// Command bookmsg composes a booking message from flags and prints it,
// optionally copying it to the clipboard for pasting into LINE.
package main

import (
	"errors"
	"fmt"
	"os"

	"trinhnail/models"
	"trinhnail/services/booking"
	"trinhnail/services/i18n"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

var (
	draft    models.BookingDraft
	langFlag string
	copyFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "bookmsg",
	Short: "Compose a booking message",
	Long: `Compose the booking message a customer sends to the salon over LINE.

Required: --name, --phone, --branch, --date, --time and at least one --service.
Times before 09:00 or from 20:00 are marked for confirmation.`,
	Example: `  bookmsg --name 小美 --phone 0912345678 --branch Yuanhua \
    --date 2025-05-01 --time 20:30 --service Nail --service Lash --copy`,
	SilenceUsage: true,
	RunE:         runCompose,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&draft.Name, "name", "", "customer name")
	f.StringVar(&draft.Phone, "phone", "", "contact phone")
	f.StringVar(&draft.Branch, "branch", "", "branch id (Yuanhua, Zhongfu)")
	f.StringVar(&draft.Birthday, "birthday", "", "birthday offer (none, month, week)")
	f.StringSliceVar(&draft.Services, "service", nil, "service id, repeatable (Nail, Lash, Tattoo, Waxing)")
	f.StringVar(&draft.Date, "date", "", "appointment date")
	f.StringVar(&draft.Time, "time", "", "appointment time, HH:MM")
	f.StringVar(&draft.Style, "style", "", "desired style")
	f.StringVar(&draft.Matte, "matte", "", "matte finish (none, yes, no)")
	f.StringVar(&draft.Note, "note", "", "additional note")
	f.IntVar(&draft.ImageCount, "images", 0, fmt.Sprintf("reference images sent separately (max %d)", models.MaxBookingImages))
	f.StringVar(&langFlag, "lang", string(i18n.DefaultLang), "message language (zh, vi)")
	f.BoolVar(&copyFlag, "copy", false, "copy the message to the clipboard")
}

func runCompose(cmd *cobra.Command, _ []string) error {
	lang := i18n.Negotiate(langFlag)
	msg, class, err := booking.Compose(draft, i18n.Default, lang)
	if err != nil {
		var verr *booking.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("%s (%s)", verr.Message(i18n.Default, lang), verr.Field)
		}
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, msg)
	if hint := booking.TimeHint(class, i18n.Default, lang); class.NeedsWarning() {
		fmt.Fprintln(cmd.ErrOrStderr(), hint)
	}

	if copyFlag {
		// Clipboard failures never fail the command; the message is already printed.
		if err := clipboardWriteAll(msg); err != nil {
			zap.L().Warn("copy to clipboard failed", zap.Error(err))
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), "copied to clipboard")
		}
	}
	return nil
}

func main() {
	logger, _ := zap.NewDevelopment()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
