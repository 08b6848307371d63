package core

import (
	"time"

	"github.com/mattn/go-runewidth"
)

const shortNameWidth = 3

type CalendarDay struct {
	Date   time.Time `json:"date"`
	Events []Event   `json:"events"`
}

type DailyCalendar struct {
	Date   time.Time `json:"selected_date"`
	Label  string    `json:"label"`
	Events []Event   `json:"events"`
}

type WeeklyCalendar struct {
	Year     int           `json:"year"`
	Week     int           `json:"week"`
	Start    time.Time     `json:"start_of_week"`
	End      time.Time     `json:"end_of_week"`
	Days     []CalendarDay `json:"week_days"`
	PrevYear int           `json:"prev_year"`
	PrevWeek int           `json:"prev_week"`
	NextYear int           `json:"next_year"`
	NextWeek int           `json:"next_week"`
}

type MonthlyCalendar struct {
	Year      int           `json:"year"`
	Month     int           `json:"month"`
	MonthName string        `json:"month_name"`
	Weeks     [][]time.Time `json:"month_days"`
	Events    []Event       `json:"events"`
}

type MonthSummary struct {
	Number    int     `json:"number"`
	Name      string  `json:"name"`
	ShortName string  `json:"short_name"`
	Events    []Event `json:"events"`
	Count     int     `json:"count"`
}

type YearlyCalendar struct {
	Year             int            `json:"year"`
	Months           []MonthSummary `json:"months"`
	TotalEvents      int            `json:"total_events"`
	BusiestMonth     string         `json:"busiest_month"`
	MaxMonthEvents   int            `json:"max_month_events"`
	MonthsWithEvents int            `json:"months_with_events"`
}

func BuildDaily(date time.Time, events []Event, loc *time.Location) *DailyCalendar {
	day := civilDate(date)

	return &DailyCalendar{
		Date:   day,
		Label:  day.Format(time.DateOnly),
		Events: FilterOverlapping(events, day, day, loc),
	}
}

func BuildWeekly(year int, week int, events []Event, loc *time.Location) (*WeeklyCalendar, error) {
	err := validateWeek(year, week)
	if err != nil {
		return nil, err
	}

	monday, sunday := WeekBounds(year, week)

	days := make([]CalendarDay, daysPerWeek)
	for i := range days {
		day := monday.AddDate(0, 0, i)
		days[i] = CalendarDay{Date: day, Events: FilterOverlapping(events, day, day, loc)}
	}

	prevYear, prevWeek := PrevWeek(year, week)
	nextYear, nextWeek := NextWeek(year, week)

	return &WeeklyCalendar{
		Year:     year,
		Week:     week,
		Start:    monday,
		End:      sunday,
		Days:     days,
		PrevYear: prevYear,
		PrevWeek: prevWeek,
		NextYear: nextYear,
		NextWeek: nextWeek,
	}, nil
}

func BuildMonthly(year int, month int, events []Event, loc *time.Location) (*MonthlyCalendar, error) {
	err := validateMonth(year, month)
	if err != nil {
		return nil, err
	}

	first, last := MonthBounds(year, time.Month(month))

	return &MonthlyCalendar{
		Year:      year,
		Month:     month,
		MonthName: monthNames[month],
		Weeks:     MonthGrid(year, time.Month(month)),
		Events:    FilterOverlapping(events, first, last, loc),
	}, nil
}

// BuildYearly summarizes each month. An event spanning several months counts in each of them.
// The busiest month is the first one with the strictly greatest count.
func BuildYearly(year int, events []Event, loc *time.Location) (*YearlyCalendar, error) {
	err := validateYear(year)
	if err != nil {
		return nil, err
	}

	yearly := &YearlyCalendar{Year: year, Months: make([]MonthSummary, 0, 12)}

	for month := time.January; month <= time.December; month++ {
		first, last := MonthBounds(year, month)
		monthEvents := FilterOverlapping(events, first, last, loc)
		count := len(monthEvents)

		yearly.TotalEvents += count

		if count > 0 {
			yearly.MonthsWithEvents++
		}

		if count > yearly.MaxMonthEvents {
			yearly.MaxMonthEvents = count
			yearly.BusiestMonth = monthNames[month]
		}

		yearly.Months = append(yearly.Months, MonthSummary{
			Number:    int(month),
			Name:      monthNames[month],
			ShortName: runewidth.Truncate(monthNames[month], shortNameWidth, ""),
			Events:    monthEvents,
			Count:     count,
		})
	}

	return yearly, nil
}
