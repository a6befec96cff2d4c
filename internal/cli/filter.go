package cli

import (
	"context"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"

	"github.com/runnerr0/stringlab/internal/query"
	"github.com/runnerr0/stringlab/internal/storage"
)

// Execute implements the go-flags Commander interface for FilterCommand.
func (c *FilterCommand) Execute(args []string) error {
	store := storage.NewMemoryStore()
	defer store.Close()

	ctx := context.Background()
	for _, v := range args {
		if _, err := store.Insert(ctx, v); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				continue
			}
			return errors.Wrapf(err, "loading %q", v)
		}
	}

	return c.executeWithStore(ctx, store)
}

// values maps the structured flags onto filter query parameters.
func (c *FilterCommand) values() url.Values {
	q := url.Values{}
	if c.Palindrome {
		q.Set(query.ParamIsPalindrome, "true")
	}
	if c.MinLength != "" {
		q.Set(query.ParamMinLength, c.MinLength)
	}
	if c.MaxLength != "" {
		q.Set(query.ParamMaxLength, c.MaxLength)
	}
	if c.WordCount != "" {
		q.Set(query.ParamWordCount, c.WordCount)
	}
	if c.Contains != "" {
		q.Set(query.ParamContainsCharacter, c.Contains)
	}
	return q
}

// resolve returns the filter to apply and a label describing it.
func (c *FilterCommand) resolve() (query.Filter, string, error) {
	q := c.values()
	if c.Phrase != "" {
		if len(q) > 0 {
			return query.Filter{}, "", errors.New("--phrase cannot be combined with structured filter flags")
		}
		p, err := query.ResolvePhrase(c.Phrase)
		if err != nil {
			return query.Filter{}, "", err
		}
		return p.Filter, fmt.Sprintf("%q (%s)", p.Text, p.Filter), nil
	}

	f, err := query.ParseValues(q)
	if err != nil {
		return query.Filter{}, "", err
	}
	return f, f.String(), nil
}

// executeWithStore applies the filter to a provided store (used by tests).
func (c *FilterCommand) executeWithStore(ctx context.Context, store storage.Store) error {
	filter, label, err := c.resolve()
	if err != nil {
		if hint := errors.FlattenHints(err); hint != "" {
			return errors.Newf("%v (%s)", err, hint)
		}
		return err
	}

	records, err := store.List(ctx)
	if err != nil {
		return errors.Wrap(err, "listing strings")
	}
	matched := filter.Apply(records)

	if wantJSON(c.globals) {
		return printJSON(filterJSON{Count: len(matched), Filters: filter, Data: matched})
	}
	return c.printHuman(label, matched)
}

type filterJSON struct {
	Count   int              `json:"count"`
	Filters query.Filter     `json:"filters"`
	Data    []storage.Record `json:"data"`
}

func (c *FilterCommand) printHuman(label string, matched []storage.Record) error {
	if len(matched) == 0 {
		fmt.Printf("No strings match %s\n", label)
		return nil
	}

	fmt.Printf("Found %d %s for %s\n\n", len(matched), plural(len(matched), "match", "matches"), label)
	for i, r := range matched {
		fmt.Printf("%d. %s\n", i+1, r.Value)
		fmt.Printf("   length %d, %d %s, palindrome %s\n",
			r.Properties.Length,
			r.Properties.WordCount, plural(r.Properties.WordCount, "word", "words"),
			yesNo(r.Properties.IsPalindrome))
	}
	return nil
}
