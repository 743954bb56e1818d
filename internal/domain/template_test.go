package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OfficeScheduler/pkg/ptr"
)

func TestTemplate_Validate(t *testing.T) {
	valid := func() *Template {
		return &Template{
			Name:            "Основной",
			DefaultCapacity: 2,
			Days: map[int][]TimeRange{
				1: {{Start: "09:00", End: "09:30", Capacity: ptr.Ptr(1)}},
				3: {{Start: "10:00", End: "11:00"}},
			},
		}
	}

	require.NoError(t, valid().Validate())

	tpl := valid()
	tpl.Name = "  "
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidTemplateName)

	tpl = valid()
	tpl.Days[7] = []TimeRange{{Start: "09:00", End: "10:00"}}
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidWeekday)

	tpl = valid()
	tpl.Days[2] = []TimeRange{{Start: "10:00", End: "09:00"}}
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidTimeRange)

	tpl = valid()
	tpl.Days[2] = []TimeRange{{Start: "09:00", End: "10:00", Capacity: ptr.Ptr(-1)}}
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidCapacity)

	tpl = valid()
	tpl.DefaultCapacity = -3
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidCapacity)
}

func TestTemplate_RangesFor(t *testing.T) {
	tpl := &Template{
		Days: map[int][]TimeRange{
			int(time.Monday): {
				{Start: "11:00", End: "11:30"},
				{Start: "09:00", End: "09:30"},
			},
		},
	}

	ranges := tpl.RangesFor(time.Monday)
	require.Len(t, ranges, 2)
	assert.Equal(t, "09:00", ranges[0].Start.String())
	assert.Equal(t, "11:00", ranges[1].Start.String())

	assert.Empty(t, tpl.RangesFor(time.Sunday))
}

func TestTimeRange_EffectiveCapacity(t *testing.T) {
	assert.Equal(t, 3, TimeRange{}.EffectiveCapacity(3))
	assert.Equal(t, 0, TimeRange{Capacity: ptr.Ptr(0)}.EffectiveCapacity(3))

	tpl := &Template{}
	assert.Equal(t, DefaultSlotCapacity, tpl.CapacityOrDefault())
}

func TestDatesInRange(t *testing.T) {
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)

	dates := DatesInRange(start, end)
	require.Len(t, dates, 7)
	assert.Equal(t, time.Monday, dates[0].Weekday())
	assert.Equal(t, "2024-06-16", DateKey(dates[6]))

	assert.Empty(t, DatesInRange(end, start))
}
