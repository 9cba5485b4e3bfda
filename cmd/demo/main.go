// Command demo is an interactive REPL over a MetricTree, adapted from the
// teacher's KV store CLI (root main.go get/set/exit loop becomes
// insert/range/knn/exit over 1-D integers under L1 distance).
package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/MourtazaKASSAMALY/elki/distance"
	"github.com/MourtazaKASSAMALY/elki/mtree"
)

const (
	demoPageSize  = 256
	demoCacheSize = 64
)

func main() {
	args := os.Args[1:]
	if len(args) != 0 {
		help()
	}

	coords := make(map[distance.ObjectID]int64)
	fn := distance.NewL1(coords)

	tree, err := mtree.InitInMemory(mtree.Config[int64]{
		DistanceFunction: fn,
		PageSize:         demoPageSize,
		CacheSize:        demoCacheSize,
	})
	if err != nil {
		abort(fmt.Sprintf("error creating tree: %v\n", err))
	}

	cli := &cli{tree: tree, fn: fn, coords: coords}

	for {
		cmd := prompt("elki>")
		response, cont := cli.handle(cmd)
		fmt.Println(response)
		if !cont {
			os.Exit(0)
		}
	}
}

func prompt(label string) string {
	var out string

	r := bufio.NewReader(os.Stdin)
	for {
		fmt.Fprint(os.Stderr, label+" ")
		out, _ = r.ReadString('\n')
		if out != "" {
			break
		}
	}

	return strings.TrimSpace(out)
}

type cli struct {
	tree   *mtree.MetricTree[int64]
	fn     *distance.L1
	coords map[distance.ObjectID]int64
	nextID distance.ObjectID
}

func (c *cli) handle(cmd string) (string, bool) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return c.help(), true
	}

	switch parts[0] {
	case "insert":
		if len(parts) != 2 {
			return c.help(), true
		}
		coord, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return fmt.Sprintf("invalid coordinate %s: %v", parts[1], err), true
		}

		id := c.nextID
		c.nextID++
		c.coords[id] = coord
		c.fn.Register(id, coord)

		if err := c.tree.Insert(id); err != nil {
			return fmt.Sprintf("error inserting: %v", err), true
		}
		return fmt.Sprintf("inserted object %d (coord %d)", id, coord), true

	case "range":
		if len(parts) != 3 {
			return c.help(), true
		}
		id, radius, err := c.parseQueryArgs(parts[1], parts[2])
		if err != nil {
			return err.Error(), true
		}

		results, err := c.tree.RangeQuery(id, radius)
		if err != nil {
			return fmt.Sprintf("error in range query: %v", err), true
		}
		return formatResults(results), true

	case "knn":
		if len(parts) != 3 {
			return c.help(), true
		}
		id, k, err := c.parseKNNArgs(parts[1], parts[2])
		if err != nil {
			return err.Error(), true
		}

		results, err := c.tree.KNNQuery(id, k)
		if err != nil {
			return fmt.Sprintf("error in knn query: %v", err), true
		}

		out := ""
		for _, r := range results {
			out += fmt.Sprintf("%d (distance %d)\n", r.Object, r.Distance)
		}
		return strings.TrimRight(out, "\n"), true

	case "exit":
		if err := c.tree.Close(); err != nil {
			return fmt.Sprintf("error closing tree: %v", err), false
		}
		return "tree closed", false

	default:
		return c.help(), true
	}
}

func (c *cli) parseQueryArgs(idText, radiusText string) (distance.ObjectID, int64, error) {
	id, err := parseObjectID(idText)
	if err != nil {
		return 0, 0, err
	}
	radius, err := strconv.ParseInt(radiusText, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid radius %s: %v", radiusText, err)
	}
	return id, radius, nil
}

func (c *cli) parseKNNArgs(idText, kText string) (distance.ObjectID, int, error) {
	id, err := parseObjectID(idText)
	if err != nil {
		return 0, 0, err
	}
	k, err := strconv.Atoi(kText)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid k %s: %v", kText, err)
	}
	return id, k, nil
}

func parseObjectID(text string) (distance.ObjectID, error) {
	v, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid object id %s: %v", text, err)
	}
	return distance.ObjectID(v), nil
}

func formatResults(results []mtree.RangeResult[int64]) string {
	out := ""
	for _, r := range results {
		out += fmt.Sprintf("%d (distance %d)\n", r.ObjectID, r.Distance)
	}
	return strings.TrimRight(out, "\n")
}

func (c *cli) help() string {
	out := ""
	out += "Valid commands:\n"
	out += "\n"
	out += "\tinsert <coord>\n"
	out += "\tExample: insert 42\n"
	out += "\n"
	out += "\trange <object_id> <radius>\n"
	out += "\tExample: range 0 5\n"
	out += "\n"
	out += "\tknn <object_id> <k>\n"
	out += "\tExample: knn 0 3\n"
	out += "\n"
	out += "\texit\n"
	return out
}

func help() {
	fmt.Println("Usage: ./demo")
	os.Exit(2)
}

func abort(msg string) {
	fmt.Printf("Error: %s\n", msg)
	os.Exit(1)
}
