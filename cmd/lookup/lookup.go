package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/address-offers/app/services"
	"github.com/address-offers/internal/locality"
	"github.com/address-offers/internal/normalizer"
)

var errNoMatch = errors.New("no match")

type query struct {
	Settlement string
	Street     string
	Number     string
}

type lookup struct {
	session *locality.Session
	offers  *services.OfferService
	out     io.Writer
}

func (l *lookup) run(ctx context.Context, q query) error {
	settlements, err := l.session.SearchSettlements(ctx, q.Settlement)
	if err != nil {
		return err
	}
	if len(settlements) == 0 {
		return fmt.Errorf("settlement %q: %w", q.Settlement, errNoMatch)
	}
	// an exact name wins over the heaviest substring match
	chosen := settlements[0]
	for _, s := range settlements {
		if normalizer.Normalize(s.Name) == normalizer.Normalize(q.Settlement) {
			chosen = s
			break
		}
	}
	state, _, err := l.session.SelectSettlement(ctx, chosen)
	if err != nil {
		return err
	}
	fmt.Fprintf(l.out, "settlement: %s (%s)\n", chosen.Name, chosen.Code)

	if !state.Streetless {
		hits, _, err := l.session.SearchStreets(ctx, q.Street)
		if err != nil {
			return err
		}
		if len(hits) == 0 {
			return fmt.Errorf("street %q in %s: %w", q.Street, chosen.Name, errNoMatch)
		}
		if _, err := l.session.SelectStreet(hits[0].StreetID, hits[0].Name); err != nil {
			return err
		}
		fmt.Fprintf(l.out, "street: %s (%s)\n", hits[0].Name, hits[0].StreetID)
	} else {
		fmt.Fprintln(l.out, "street: none, settlement has no named streets")
	}

	numbers, _, err := l.session.SearchNumbers(ctx, q.Number)
	if err != nil {
		return err
	}
	number := ""
	for _, n := range numbers {
		if strings.EqualFold(n.Number, strings.TrimSpace(q.Number)) {
			number = n.Number
			break
		}
	}
	if number == "" {
		return fmt.Errorf("building number %q: %w", q.Number, errNoMatch)
	}
	state, err = l.session.SelectNumber(number)
	if err != nil {
		return err
	}

	key, _ := state.AddressKey()
	res, err := l.offers.ResolveOffers(ctx, key.SettlementCode, key.StreetID, key.Number)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(l.out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
