// mkfixture generates a synthetic 15-column visits CSV for local testing.
// Rows mix verified and unverified statuses, blank fields, and padded casing
// so the output exercises the full cleaning path.
// Usage: go run ./cmd/mkfixture --out testdata/visits.csv --rows 200 --seed 7
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
)

var headers = []string{
	"Client Name", "Employee Name", "Service Type", "Visit Date", "Start Time",
	"End Time", "Duration", "Address", "City", "State", "Zip", "Phone",
	"Supervisor", "Notes", "Status",
}

var clients = []string{
	"Alvarez, Maria", "Chen, Wei", "Dubois, Anne", "Okafor, Chidi",
	"Park, Soo-Jin", "Rossi, Marco", "Singh, Priya", "Walker, James",
}

var employees = []string{
	"Baker, Tom", "Garcia, Luis", "Ivanova, Olga", "Kim, Daniel",
	"Nguyen, Linh", "Osei, Kwame",
}

var services = []string{
	"Personal Care", "Skilled Nursing", "Physical Therapy",
	"Homemaker", "Respite Care",
}

var statuses = []string{
	"verified", "Verified", " VERIFIED ", "pending", "cancelled", "no-show",
}

func main() {
	out := flag.String("out", "testdata/visits.csv", "output CSV path")
	rows := flag.Int("rows", 200, "number of data rows to generate")
	seed := flag.Int64("seed", 1, "random seed")
	noHeader := flag.Bool("no-header", false, "omit the header row")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !*noHeader {
		if err := w.Write(headers); err != nil {
			fmt.Fprintf(os.Stderr, "write header: %v\n", err)
			os.Exit(1)
		}
	}

	verified := 0
	for i := 0; i < *rows; i++ {
		client := clients[rng.Intn(len(clients))]
		employee := employees[rng.Intn(len(employees))]
		service := services[rng.Intn(len(services))]
		status := statuses[rng.Intn(len(statuses))]

		// A few verified rows carry a blank required field so the
		// missing-field rejection path gets exercised too.
		if rng.Intn(20) == 0 {
			switch rng.Intn(3) {
			case 0:
				client = ""
			case 1:
				employee = "   "
			default:
				service = ""
			}
		}

		record := []string{
			client, employee, service,
			fmt.Sprintf("2026-0%d-%02d", 1+rng.Intn(9), 1+rng.Intn(28)),
			fmt.Sprintf("%02d:00", 8+rng.Intn(9)),
			fmt.Sprintf("%02d:00", 9+rng.Intn(9)),
			fmt.Sprintf("%d", 1+rng.Intn(4)),
			fmt.Sprintf("%d Main St", 100+rng.Intn(900)),
			"Springfield", "IL", "62701", "555-0100",
			"Hall, Dana", "",
			status,
		}
		if err := w.Write(record); err != nil {
			fmt.Fprintf(os.Stderr, "write row: %v\n", err)
			os.Exit(1)
		}
		if status == "verified" || status == "Verified" || status == " VERIFIED " {
			verified++
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "flush: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rows to %s (%d verified)\n", *rows, *out, verified)
}
