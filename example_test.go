package anonlattice_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/anonlattice"
	"github.com/hupe1980/anonlattice/blobstore"
	"github.com/hupe1980/anonlattice/persistence"
	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/space"
	"github.com/hupe1980/anonlattice/testutil"
)

// Example_open builds a complete lattice over a fully classified 3x3 space.
func Example_open() {
	grid, err := testutil.ClassifiedGrid([]int{2, 2}, 2)
	if err != nil {
		log.Fatal(err)
	}
	model, err := quality.NewHeight(0, 4)
	if err != nil {
		log.Fatal(err)
	}

	sess, err := anonlattice.Open(grid, model, anonlattice.WithHeader("age", "zip"))
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	l := sess.Lattice()
	fmt.Printf("nodes: %d, levels: %d\n", l.Size(), len(l.Levels()))
	fmt.Println("bottom", l.Bottom().Transformation(), l.Bottom().Anonymity())
	fmt.Println("top", l.Top().Transformation(), l.Top().Anonymity())
	// Output:
	// nodes: 9, levels: 5
	// bottom [0 0] NOT_ANONYMOUS
	// top [2 2] ANONYMOUS
}

// Example_expand grows an incomplete lattice around a node.
func Example_expand() {
	grid, err := space.NewUniformGrid(2, 2)
	if err != nil {
		log.Fatal(err)
	}
	// Only [1,1] was visited by the search.
	if _, err := grid.PutVector([]int{1, 1}, space.Checked|space.Anonymous, quality.Loss(0.5), nil); err != nil {
		log.Fatal(err)
	}

	sess, err := anonlattice.Open(grid, quality.NewScalar(quality.ScalarConfig{}), anonlattice.WithComplete(false))
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	center, _ := sess.Lattice().Node(4)
	fmt.Println("before:", sess.Lattice().Size())

	res, err := sess.Expand(center)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("added:", res.Added)
	fmt.Println("after:", sess.Lattice().Size())
	// Output:
	// before: 3
	// added: 4
	// after: 7
}

// Example_rowStore compares packed records while ignoring outlier markers.
func Example_rowStore() {
	grid, err := testutil.ClassifiedGrid([]int{1}, 1)
	if err != nil {
		log.Fatal(err)
	}
	model, _ := quality.NewHeight(0, 1)
	sess, err := anonlattice.Open(grid, model)
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	rows, err := sess.NewRowStore(2, []uint8{3, 12})
	if err != nil {
		log.Fatal(err)
	}
	for r := range 2 {
		rows.Set(r, 0, 5)
		rows.Set(r, 1, 1200)
	}
	rows.MarkOutlier(1)

	fmt.Println("equal:", rows.Equals(0, 1))
	fmt.Println("equal ignoring outliers:", rows.EqualsIgnoreOutliers(0, 1))
	fmt.Println("outlier:", rows.IsOutlier(1))
	// Output:
	// equal: false
	// equal ignoring outliers: true
	// outlier: true
}

// Example_saveRestore persists a lattice and rebuilds it over the same space.
func Example_saveRestore() {
	ctx := context.Background()
	grid, err := testutil.ClassifiedGrid([]int{3, 1}, 2)
	if err != nil {
		log.Fatal(err)
	}
	model, _ := quality.NewHeight(0, 4)

	sess, err := anonlattice.Open(grid, model, anonlattice.WithCompression(persistence.CompressionLZ4))
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	store := blobstore.NewMemoryStore()
	if err := sess.Save(ctx, store, "lattice.alsn"); err != nil {
		log.Fatal(err)
	}

	restored, err := anonlattice.Restore(ctx, grid, model, store, "lattice.alsn")
	if err != nil {
		log.Fatal(err)
	}
	defer restored.Close()

	names, _ := store.List(ctx, "")
	fmt.Println(names)
	fmt.Println("restored nodes:", restored.Lattice().Size())
	// Output:
	// [lattice.alsn]
	// restored nodes: 8
}
