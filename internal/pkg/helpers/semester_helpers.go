package helpers

import (
	"strconv"
)

// Semester codes are YYYYMM where MM identifies the term.
var semesterSeasons = map[string]string{
	"01": "Spring",
	"05": "Summer",
	"08": "Fall",
	"12": "Winter",
}

// SemesterName turns a semester code such as "202008" into "Fall 2020".
// Winter terms start in December and are named after the following year.
// Codes that don't follow the YYYYMM layout are returned unchanged.
func SemesterName(code string) string {
	if len(code) != 6 {
		return code
	}

	season, ok := semesterSeasons[code[4:]]
	if !ok {
		return code
	}

	year, err := strconv.Atoi(code[:4])
	if err != nil {
		return code
	}
	if season == "Winter" {
		year++
	}

	return season + " " + strconv.Itoa(year)
}
