// Failovertest drives a cluster client against running mockbackend
// instances and prints the pool's view once a second. Kill one of the
// backends to watch it move to the disabled set and come back after
// the cooldown.
//
// Usage:
//
//	go run ./scripts/mockbackend -port 8086 &
//	go run ./scripts/mockbackend -port 8087 &
//	go run ./scripts/failovertest -instances http://localhost:8086,http://localhost:8087
package main

import (
	"context"
	"flag"
	"log"
	"strings"
	"time"

	"github.com/angeloszaimis/influxcluster"
)

func main() {
	instances := flag.String("instances", "http://localhost:8086", "comma-separated instance URLs")
	cooldown := flag.Duration("cooldown", 10*time.Second, "failover cooldown")
	flag.Parse()

	cluster, err := influxcluster.NewCluster("root", "root", strings.Split(*instances, ",")...)
	if err != nil {
		log.Fatalf("creating cluster: %v", err)
	}
	defer cluster.Close()

	cluster.SetFailoverCooldown(*cooldown)
	cluster.SetRequestTimeout(2 * time.Second)

	for {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		names, err := cluster.DatabaseNames(ctx)
		cancel()

		if err != nil {
			log.Printf("request failed: %v", err)
		} else {
			log.Printf("databases: %v", names)
		}

		log.Printf("available=%v disabled=%v",
			cluster.AvailableInstances(), cluster.DisabledInstances())

		time.Sleep(time.Second)
	}
}
