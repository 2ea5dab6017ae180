// Mockbackend is a fake time-series instance used for manual
// failover testing. It answers the database and series endpoints
// with canned JSON and logs every request it receives.
//
// Usage:
//
//	go run ./scripts/mockbackend -port 8086
//
// Run two of them on different ports, point the failovertest script
// at both, then kill one to watch the cluster demote and re-admit it.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
)

func main() {
	port := flag.Int("port", 8086, "port to listen on")
	name := flag.String("name", "mock", "instance name reported in responses")
	flag.Parse()

	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[%s] %s %s?%s", *name, r.Method, r.URL.Path, r.URL.RawQuery)

		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/db":
			json.NewEncoder(w).Encode([]map[string]string{
				{"name": "metrics"}, {"name": "events"},
			})
		case r.Method == http.MethodGet:
			json.NewEncoder(w).Encode([]map[string]interface{}{
				{"name": "cpu", "columns": []string{"time", "value"}, "points": [][]int{{0, 1}}},
			})
		default:
			w.WriteHeader(http.StatusOK)
		}
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("[%s] listening on %s", *name, addr)
	log.Fatal(http.ListenAndServe(addr, nil))
}
