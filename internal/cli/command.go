package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/graphlive/pkg/attr"
	"github.com/matzehuels/graphlive/pkg/editor"
	"github.com/matzehuels/graphlive/pkg/errors"
	"github.com/matzehuels/graphlive/pkg/generate"
	"github.com/matzehuels/graphlive/pkg/layout"
	"github.com/matzehuels/graphlive/pkg/scene"
)

// commandHelp lists the commands the interactive editor understands.
var commandHelp = []string{
	"add [x y [w h [shape]]]   add a node",
	"rm <node>                 remove a node and its edges",
	"edge <source> <target>    add an edge",
	"unedge <edge>             remove an edge",
	"move <node> <x> <y>       move a node",
	"size <node> <w> <h>       resize a node",
	"shape <node> <shape>      rectangle, ellipse or rounded",
	"layout [algorithm]        run or switch the layout algorithm",
	"auto on|off               toggle automatic layout",
	"gen <family> <n> [m]      replace the graph with a random one",
	"clear                     remove everything",
	"open <file>               load a scene file",
	"save <file>               write a scene file",
}

// interpreter applies one-line commands to an editor.
type interpreter struct {
	ed      *editor.Editor
	resolve func(string) (layout.Algorithm, error)
}

// exec runs one command line and returns a status message.
func (in *interpreter) exec(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		return strings.Join(commandHelp, "\n"), nil
	case "add":
		return in.add(args)
	case "rm":
		idx, err := intArgs(args, 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed node %d", idx[0]), in.ed.RemoveNode(idx[0])
	case "edge":
		idx, err := intArgs(args, 2)
		if err != nil {
			return "", err
		}
		e, err := in.ed.AddEdge(idx[0], idx[1])
		if e == editor.InvalidIndex {
			return "", err
		}
		return fmt.Sprintf("added edge %d (%d -> %d)", e, idx[0], idx[1]), err
	case "unedge":
		idx, err := intArgs(args, 1)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("removed edge %d", idx[0]), in.ed.RemoveEdge(idx[0])
	case "move":
		return in.patch(args, func(p *attr.Patch, x, y float64) { p.X, p.Y = &x, &y })
	case "size":
		return in.patch(args, func(p *attr.Patch, w, h float64) { p.Width, p.Height = &w, &h })
	case "shape":
		return in.shape(args)
	case "layout":
		return in.layout(args)
	case "auto":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return "", usage("auto on|off")
		}
		return "automatic layout " + args[0], in.ed.SetAutoLayout(args[0] == "on")
	case "gen":
		return in.generate(args)
	case "clear":
		in.ed.Clear()
		return "cleared", nil
	case "open":
		if len(args) != 1 {
			return "", usage("open <file>")
		}
		sc, err := scene.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		if _, _, err := scene.Load(in.ed, sc); err != nil {
			return "", err
		}
		return fmt.Sprintf("opened %s", args[0]), nil
	case "save":
		if len(args) != 1 {
			return "", usage("save <file>")
		}
		if err := scene.WriteFile(args[0], scene.Capture(in.ed)); err != nil {
			return "", err
		}
		return fmt.Sprintf("saved %s", args[0]), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput, "unknown command %q (try help)", cmd)
	}
}

func (in *interpreter) add(args []string) (string, error) {
	var rec *attr.Node
	if len(args) > 0 {
		nums := make([]float64, 0, 4)
		for _, a := range args[:min(len(args), 4)] {
			v, err := strconv.ParseFloat(a, 64)
			if err != nil {
				return "", usage("add [x y [w h [shape]]]")
			}
			nums = append(nums, v)
		}
		if (len(nums) != 2 && len(nums) != 4) || len(args) > 5 {
			return "", usage("add [x y [w h [shape]]]")
		}
		rec = &attr.Node{X: nums[0], Y: nums[1]}
		if len(nums) == 4 {
			rec.Width, rec.Height = nums[2], nums[3]
		}
		if len(args) == 5 {
			shape, err := attr.ParseShape(args[4])
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeInvalidArgument, err, "add")
			}
			rec.Shape = shape
		}
	}
	idx, err := in.ed.AddNode(rec)
	if idx == editor.InvalidIndex {
		return "", err
	}
	return fmt.Sprintf("added node %d", idx), err
}

func (in *interpreter) patch(args []string, set func(p *attr.Patch, a, b float64)) (string, error) {
	if len(args) != 3 {
		return "", usage("<node> <a> <b>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return "", usage("<node> <a> <b>")
	}
	a, errA := strconv.ParseFloat(args[1], 64)
	b, errB := strconv.ParseFloat(args[2], 64)
	if errA != nil || errB != nil {
		return "", usage("<node> <a> <b>")
	}
	var p attr.Patch
	set(&p, a, b)
	return fmt.Sprintf("updated node %d", idx), in.ed.PatchNode(idx, p)
}

func (in *interpreter) shape(args []string) (string, error) {
	if len(args) != 2 {
		return "", usage("shape <node> <shape>")
	}
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return "", usage("shape <node> <shape>")
	}
	shape, err := attr.ParseShape(args[1])
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidArgument, err, "node %d", idx)
	}
	return fmt.Sprintf("node %d is now %s", idx, shape), in.ed.PatchNode(idx, attr.Patch{Shape: &shape})
}

func (in *interpreter) layout(args []string) (string, error) {
	if len(args) == 0 {
		return fmt.Sprintf("ran %s", in.ed.Algorithm().Name()), in.ed.Relayout()
	}
	alg, err := in.resolve(args[0])
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("algorithm %s", alg.Name()), in.ed.SetAlgorithm(alg)
}

func (in *interpreter) generate(args []string) (string, error) {
	if len(args) < 2 || len(args) > 3 {
		return "", usage("gen <family> <n> [m]")
	}
	nums, err := intArgs(args[1:], len(args)-1)
	if err != nil {
		return "", err
	}
	p := generate.Params{Nodes: nums[0], MaxDegree: 3, Probability: 0.2}
	if len(nums) == 2 {
		p.Edges = nums[1]
	} else {
		p.Edges = nums[0] + nums[0]/2
	}
	gen, err := generate.New(args[0], p)
	if err != nil {
		return "", err
	}
	if err := in.ed.Generate(gen); err != nil {
		return "", err
	}
	return fmt.Sprintf("generated %s graph with %d nodes", args[0], in.ed.NodeCount()), nil
}

// intArgs parses exactly n integer arguments.
func intArgs(args []string, n int) ([]int, error) {
	if len(args) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "expected %d numeric arguments, got %d", n, len(args))
	}
	out := make([]int, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%q is not an index", a)
		}
		out[i] = v
	}
	return out, nil
}

func usage(form string) error {
	return errors.New(errors.ErrCodeInvalidInput, "usage: %s", form)
}
