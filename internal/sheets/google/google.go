package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"moneyman/internal/log"
	ports "moneyman/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Client appends journal rows to one sheet of a spreadsheet.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	journalSheet  string
	logger        *log.Logger
}

// Ensure interface conformance
var _ ports.JournalWriter = (*Client)(nil)

// New wraps an existing Sheets service. Each row goes to the sheet for the
// year of its entry, "<year> <sheet>", unless sheet already starts with a
// year.
func New(svc *gsheet.Service, spreadsheetID, sheet string, logger *log.Logger) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(sheet) == "" {
		sheet = "Journal"
	}
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		journalSheet:  strings.TrimSpace(sheet),
		logger:        logger.WithComponent(log.ComponentJournal),
	}, nil
}

// NewWithServiceAccount creates a client authenticated with service account
// credentials taken from the environment.
func NewWithServiceAccount(ctx context.Context, spreadsheetID, sheet string, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	svc, err := newSheetsService(ctx, logger)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return New(svc, spreadsheetID, sheet, logger)
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Uses GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS.
func newSheetsService(ctx context.Context, logger *log.Logger) (*gsheet.Service, error) {
	if logger == nil {
		logger = log.FromContext(ctx)
	}
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	switch {
	case serviceAccountJSON != "":
		logger.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		logger.InfoContext(ctx, "Reading credentials from file", "path", serviceAccountFile)
		b, err := os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// Append adds the entry below the last journal row and returns the range
// the API reports as written.
func (c *Client) Append(ctx context.Context, e ports.Entry) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	sheet := c.sheetFor(e.At)
	rng := fmt.Sprintf("%s!A:I", sheet)
	vr := &gsheet.ValueRange{Values: [][]any{e.Row()}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", sheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	c.logger.DebugContext(ctx, "Appended journal row",
		log.FieldUsername, e.Username,
		log.FieldExpenseID, e.Expense.ID,
		log.FieldSheetsRef, ref)
	return ref, nil
}

// Sheet is the sheet rows dated now are appended to.
func (c *Client) Sheet() string { return c.sheetFor(time.Now()) }

func (c *Client) sheetFor(at time.Time) string {
	if at.IsZero() {
		at = time.Now()
	}
	return yearPrefixedName(c.journalSheet, at.Year())
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
