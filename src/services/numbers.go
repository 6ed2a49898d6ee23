package services

import (
	"fmt"
	"time"

	"rcm/src/stor"
)

// tempNumber is the placeholder request number written at insert time. The
// row id is not known yet, so move-in and move-out numbers get rewritten by
// finalNumber inside the same transaction.
func tempNumber(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

func finalNumber(prefix string, unitNumber string) stor.NumberFn {
	return func(id uint) string {
		return fmt.Sprintf("%s-%s-%d", prefix, unitNumber, id)
	}
}
