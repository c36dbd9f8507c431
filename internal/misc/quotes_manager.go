package misc

import (
	"encoding/csv"
	"io"
	"math/rand"
	"strings"

	log "github.com/sirupsen/logrus"
)

type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
}

type QuotesManager struct {
	Quotes        []*Quote
	AuthorsQuotes map[string][]*Quote
	GenresQuotes  map[string][]*Quote
}

// NewQuoteManager reads QUOTE;AUTHOR;GENRE records, a malformed row is
// skipped instead of failing the whole load.
func NewQuoteManager(quotesCsvReader *csv.Reader) (*QuotesManager, error) {
	qm := &QuotesManager{
		AuthorsQuotes: make(map[string][]*Quote),
		GenresQuotes:  make(map[string][]*Quote),
	}

	quotesCsvReader.Comma = ';'
	quotesCsvReader.FieldsPerRecord = -1
	for {
		record, err := quotesCsvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if len(record) != 3 {
			log.Warnf("skipping quote record with %d fields instead of 3", len(record))
			continue
		}

		quote := &Quote{
			Text:   strings.TrimSpace(record[0]),
			Author: strings.TrimSpace(record[1]),
			Genre:  strings.TrimSpace(record[2]),
		}
		qm.Quotes = append(qm.Quotes, quote)

		qm.AuthorsQuotes[quote.Author] = append(qm.AuthorsQuotes[quote.Author], quote)
		qm.GenresQuotes[quote.Genre] = append(qm.GenresQuotes[quote.Genre], quote)
	}

	log.Debugf("loaded %d quotes", len(qm.Quotes))

	return qm, nil
}

func (qm *QuotesManager) RandomQuote() *Quote {
	if len(qm.Quotes) == 0 {
		return &Quote{Text: "Earn while you burn!", Author: "Rep Coin", Genre: "fitness"}
	}
	return qm.Quotes[rand.Intn(len(qm.Quotes))]
}
