// Command portalsrv runs the in-memory development server. Everything it
// serves lives in process memory and is reseeded on every start.
package main

import (
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/staffvault/pdfportal/internal/devserver"
	"github.com/staffvault/pdfportal/internal/logging"
)

func main() {

	addr := flag.String("a", ":5007", "address and port to listen on")
	seed := flag.Bool("seed", true, "load the fixture data set")
	flag.Parse()

	logger := logging.NewTextLogger(os.Stdout, slog.LevelInfo)

	srv := devserver.NewServer(logger)
	if *seed {
		srv.Seed()
		log.Printf("seeded fixtures; admin login: companyid=admin0001 birthdate=1970-01-01")
	}

	log.Printf("listening on %s", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		log.Fatalf("%v", err)
	}

}
