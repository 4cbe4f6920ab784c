package datasets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// PadToken is the vocabulary entry used to fill captions up to the width of
// the longest one.
const PadToken = "<pad>"

// ErrNoPadToken is returned when a vocabulary has no PadToken entry.
var ErrNoPadToken = errors.New("vocabulary has no " + PadToken + " entry")

// Vocabulary maps tokens to their indices. It is built elsewhere; this
// package only reads it.
type Vocabulary map[string]int

// LoadVocabulary reads a JSON object mapping tokens to indices.
func LoadVocabulary(path string) (Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read vocabulary %s", path)
	}
	var vocab Vocabulary
	if err := json.Unmarshal(data, &vocab); err != nil {
		return nil, errors.Wrapf(err, "failed to parse vocabulary %s", path)
	}
	return vocab, nil
}

// PadIndex returns the index of PadToken.
func (v Vocabulary) PadIndex() (int, error) {
	idx, ok := v[PadToken]
	if !ok {
		return 0, errors.WithStack(ErrNoPadToken)
	}
	return idx, nil
}

// Tokens decodes the first length entries of a caption row back to tokens.
// Indices missing from the vocabulary are rendered as "<unk:N>".
func (v Vocabulary) Tokens(row []int32, length int) []string {
	inverse := make(map[int]string, len(v))
	for tok, idx := range v {
		inverse[idx] = tok
	}
	length = min(length, len(row))
	out := make([]string, length)
	for i := range length {
		tok, ok := inverse[int(row[i])]
		if !ok {
			tok = fmt.Sprintf("<unk:%d>", row[i])
		}
		out[i] = tok
	}
	return out
}
