package handlepool_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/hupe1980/handlepool"
)

type Texture struct {
	Name   string
	Width  int
	Height int
}

// Example demonstrates the basic handle lifecycle.
func Example() {
	p, err := handlepool.New[Texture](64)
	if err != nil {
		log.Fatal(err)
	}
	defer p.Close()

	h, err := p.Insert(Texture{Name: "grass", Width: 16, Height: 16})
	if err != nil {
		log.Fatal(err)
	}

	tex, err := p.Get(h)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(h, tex.Name)

	if err := p.Erase(h); err != nil {
		log.Fatal(err)
	}
	_, err = p.Get(h)
	fmt.Println(p.IsValid(h), errors.Is(err, handlepool.ErrStaleHandle))
	// Output:
	// Handle(0:0) grass
	// false true
}

// Example_reuse shows that freed slots are reused last-in first-out with a
// bumped generation.
func Example_reuse() {
	p, _ := handlepool.New[int](1)
	defer p.Close()

	var hs []handlepool.Handle[int]
	for i := 1; i <= 4; i++ {
		h, _ := p.Insert(i)
		hs = append(hs, h)
	}
	_ = p.Erase(hs[1])
	_ = p.Erase(hs[3])

	h5, _ := p.Insert(5)
	h6, _ := p.Insert(6)
	fmt.Println(h5, h6)
	// Output: Handle(3:1) Handle(1:1)
}

// Example_iterate shows iteration skipping erased values.
func Example_iterate() {
	p, _ := handlepool.New[string](4)
	defer p.Close()

	var hs []handlepool.Handle[string]
	for _, s := range []string{"a", "b", "c", "d", "e"} {
		h, _ := p.Insert(s)
		hs = append(hs, h)
	}
	_ = p.Erase(hs[2])

	for h, v := range p.All() {
		fmt.Println(h.Value(), *v)
	}
	// Output:
	// 0 a
	// 1 b
	// 3 d
	// 4 e
}

// Example_release shows the release hook running once per destroyed value.
func Example_release() {
	var released []string
	p, _ := handlepool.New[Texture](8, handlepool.WithRelease(func(t *Texture) {
		released = append(released, t.Name)
	}))

	a, _ := p.Insert(Texture{Name: "a"})
	_, _ = p.Insert(Texture{Name: "b"})
	_ = p.Erase(a)
	_ = p.Close()

	fmt.Println(released)
	// Output: [a b]
}

// Example_forEachParallel shows read-only fan-out over chunks.
func Example_forEachParallel() {
	p, _ := handlepool.New[int](16)
	defer p.Close()

	for i := range 100 {
		_, _ = p.Insert(i)
	}

	var sum atomic.Int64
	err := p.ForEachParallel(context.Background(), 4, func(_ context.Context, _ handlepool.Handle[int], v *int) error {
		sum.Add(int64(*v))
		return nil
	})
	fmt.Println(sum.Load(), err)
	// Output: 4950 <nil>
}
