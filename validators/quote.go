package validators

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/omerfatihko/quote-base/model"
)

// SpamLimit caps every quote field. Nobody quotes 2000 characters of a book
// in good faith.
const SpamLimit = 2000

var (
	ErrQuoteMandatory = errors.New("Book title, quote, and author are mandatory fields.")
	ErrQuoteTooLong   = errors.New("Each field can have 2000 characters at most.")
)

// QuoteValidator trims every field in place and checks the rules for a new
// quote: book title, quote and author must be non-blank, and no field may
// exceed the spam limit.
func QuoteValidator(q *model.Quote) error {
	TrimQuoteFields(q)

	if q.BookTitle == "" || q.Quote == "" || q.Author == "" {
		return ErrQuoteMandatory
	}

	return SpamLimitValidator(q)
}

// SpamLimitValidator only enforces the per-field size cap. Edits go through
// this one, blanking a mandatory field on edit has always been allowed.
func SpamLimitValidator(q *model.Quote) error {
	// Characters, not bytes, a multibyte quote gets the full allowance
	for _, f := range []string{q.BookSeries, q.BookTitle, q.Characters, q.Quote, q.Author} {
		if utf8.RuneCountInString(f) > SpamLimit {
			return ErrQuoteTooLong
		}
	}

	return nil
}

func TrimQuoteFields(q *model.Quote) {
	q.BookSeries = strings.TrimSpace(q.BookSeries)
	q.BookTitle = strings.TrimSpace(q.BookTitle)
	q.Characters = strings.TrimSpace(q.Characters)
	q.Quote = strings.TrimSpace(q.Quote)
	q.Author = strings.TrimSpace(q.Author)
}
