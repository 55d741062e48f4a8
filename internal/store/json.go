package store

import (
	"encoding/json"
	"fmt"
	"io"

	"jobboard-engine/internal/domain"
)

func decodeJSON(r io.Reader) ([]domain.Job, error) {
	var jobs []domain.Job
	dec := json.NewDecoder(r)
	if err := dec.Decode(&jobs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if jobs == nil {
		// "null" decodes without error
		return nil, fmt.Errorf("%w: expected an array of jobs", ErrMalformed)
	}
	if err := validate(jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
