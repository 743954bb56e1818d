package availability

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-OfficeScheduler/internal/domain"
)

const keyPrefix = "availability"

// Key ключ кэша для пары (офис, дата): availability:<office>:<YYYY-MM-DD>
func Key(officeID int64, date time.Time) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, officeID, domain.DateKey(date))
}
