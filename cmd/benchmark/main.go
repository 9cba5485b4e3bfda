// Command benchmark measures the metric index core's I/O-access-count
// behavior for a synthetic 2-D Euclidean workload, comparing a memory-backed
// tree against a file-backed one, following the teacher pack's
// flag-driven comparison harness (intellect4all-storage-engines/cmd/benchmark).
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/mtree"
)

func main() {
	points := flag.Int("points", 2000, "number of random 2-D points to insert")
	queries := flag.Int("queries", 50, "number of random kNN queries to run")
	k := flag.Int("k", 10, "k for each kNN query")
	pageSize := flag.Int("page-size", 512, "node page size in bytes")
	cacheSize := flag.Int("cache-size", 32, "cache capacity in pages")
	backend := flag.String("backend", "compare", "backend to benchmark: memory, file, or compare")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	fmt.Println("Metric Index Benchmark")
	fmt.Println("=======================")
	fmt.Printf("Points: %d, Queries: %d, k: %d\n", *points, *queries, *k)
	fmt.Printf("Page size: %d, Cache size: %d\n\n", *pageSize, *cacheSize)

	rng := rand.New(rand.NewSource(*seed))
	coordinates := make(map[distance.ObjectID][2]float64, *points)
	for i := 0; i < *points; i++ {
		coordinates[distance.ObjectID(i)] = [2]float64{rng.Float64() * 1000, rng.Float64() * 1000}
	}
	queryIDs := make([]distance.ObjectID, *queries)
	for i := range queryIDs {
		queryIDs[i] = distance.ObjectID(rng.Intn(*points))
	}

	switch *backend {
	case "memory":
		runMemory(coordinates, queryIDs, *pageSize, *cacheSize, *k)
	case "file":
		runFile(coordinates, queryIDs, *pageSize, *cacheSize, *k)
	case "compare":
		runMemory(coordinates, queryIDs, *pageSize, *cacheSize, *k)
		fmt.Println()
		runFile(coordinates, queryIDs, *pageSize, *cacheSize, *k)
	default:
		fmt.Printf("unknown backend: %s (must be memory, file, or compare)\n", *backend)
		os.Exit(1)
	}
}

func runMemory(coordinates map[distance.ObjectID][2]float64, queryIDs []distance.ObjectID, pageSize, cacheSize, k int) {
	fmt.Println("=== Memory-backed ===")

	fn := distance.NewEuclidean2D(coordinates)
	tree, err := mtree.InitInMemory(mtree.Config[float64]{
		DistanceFunction: fn,
		PageSize:         pageSize,
		CacheSize:        cacheSize,
	})
	if err != nil {
		fmt.Printf("failed to create tree: %v\n", err)
		os.Exit(1)
	}
	defer tree.Close()

	report(tree, coordinates, queryIDs, k)
}

func runFile(coordinates map[distance.ObjectID][2]float64, queryIDs []distance.ObjectID, pageSize, cacheSize, k int) {
	fmt.Println("=== File-backed ===")

	dir, err := os.MkdirTemp("", "elki-benchmark-*")
	if err != nil {
		fmt.Printf("failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	defer os.RemoveAll(dir)

	fn := distance.NewEuclidean2D(coordinates)
	tree, err := mtree.InitNewFile(mtree.Config[float64]{
		DistanceFunction: fn,
		PageSize:         pageSize,
		CacheSize:        cacheSize,
	}, dir+"/tree.elki")
	if err != nil {
		fmt.Printf("failed to create tree: %v\n", err)
		os.Exit(1)
	}
	defer tree.Close()

	report(tree, coordinates, queryIDs, k)
}

func report(tree *mtree.MetricTree[float64], coordinates map[distance.ObjectID][2]float64, queryIDs []distance.ObjectID, k int) {
	ids := make([]distance.ObjectID, 0, len(coordinates))
	for id := range coordinates {
		ids = append(ids, id)
	}

	start := time.Now()
	if err := tree.InsertMany(ids); err != nil {
		fmt.Printf("insert failed: %v\n", err)
		os.Exit(1)
	}
	insertElapsed := time.Since(start)
	insertIO := tree.IOAccessCount()

	tree.ResetIOAccessCount()
	start = time.Now()
	for _, q := range queryIDs {
		if _, err := tree.KNNQuery(q, k); err != nil {
			fmt.Printf("knn query failed: %v\n", err)
			os.Exit(1)
		}
	}
	queryElapsed := time.Since(start)
	queryIO := tree.IOAccessCount()

	fmt.Printf("Insert: %v (%d objects, %d page I/O)\n", insertElapsed, len(ids), insertIO)
	fmt.Printf("Query:  %v (%d kNN queries, %d page I/O, %.1f I/O per query)\n", queryElapsed, len(queryIDs), queryIO, float64(queryIO)/float64(len(queryIDs)))
}
