package shell

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mantisos/aios/internal/hal/celestial"
	"github.com/mantisos/aios/internal/hal/tensor"
)

func (s *Shell) cmdHalDevices(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	devices := s.hal.Compute.ListDevices()
	if len(devices) == 0 {
		fmt.Fprintln(s.out, "No compute devices available.")
		return nil
	}
	headerColor.Fprintln(s.out, "Compute devices:")
	for _, d := range devices {
		fmt.Fprintf(s.out, "  %s [%s]", d.Name, d.Kind)
		if len(d.Capabilities) > 0 {
			fmt.Fprintf(s.out, " (%s)", strings.Join(d.Capabilities, ", "))
		}
		fmt.Fprintln(s.out)
	}
	return nil
}

// parseShape parses shapes of the form "2x3" or "4".
func parseShape(s string) ([]int, error) {
	parts := strings.Split(s, "x")
	shape := make([]int, 0, len(parts))
	for _, part := range parts {
		dim, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid shape %q: %w", s, err)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}

func (s *Shell) cmdTensorZeros(_ context.Context, args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	kind, err := tensor.ParseKind(args[0])
	if err != nil {
		return err
	}
	shape, err := parseShape(args[1])
	if err != nil {
		return err
	}

	t, err := s.hal.Tensor.Zeros(shape, kind)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "tensor %s %v (%d bytes)\n", t.Kind(), t.Shape(), t.ByteLen())
	return nil
}

func (s *Shell) cmdTensorAdd(_ context.Context, args []string) error {
	if len(args) != 4 {
		return errUsage
	}
	kind, err := tensor.ParseKind(args[0])
	if err != nil {
		return err
	}
	shape, err := parseShape(args[1])
	if err != nil {
		return err
	}

	a, err := parseTensor(kind, shape, args[2])
	if err != nil {
		return err
	}
	b, err := parseTensor(kind, shape, args[3])
	if err != nil {
		return err
	}

	sum, err := s.hal.Tensor.Add(a, b)
	if err != nil {
		return err
	}

	rendered, err := renderTensor(sum)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s %v = %s\n", sum.Kind(), sum.Shape(), rendered)
	return nil
}

// parseTensor builds a tensor from a comma-separated value list.
func parseTensor(kind tensor.Kind, shape []int, csv string) (*tensor.Tensor, error) {
	parts := strings.Split(csv, ",")
	switch kind {
	case tensor.F32:
		values := make([]float32, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseFloat(p, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid f32 value %q: %w", p, err)
			}
			values = append(values, float32(v))
		}
		return tensor.FromF32(shape, values)
	case tensor.I32:
		values := make([]int32, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseInt(p, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid i32 value %q: %w", p, err)
			}
			values = append(values, int32(v))
		}
		return tensor.FromI32(shape, values)
	case tensor.U8:
		values := make([]uint8, 0, len(parts))
		for _, p := range parts {
			v, err := strconv.ParseUint(p, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("invalid u8 value %q: %w", p, err)
			}
			values = append(values, uint8(v))
		}
		return tensor.FromU8(shape, values)
	}
	return nil, tensor.ErrUnsupportedKind
}

func renderTensor(t *tensor.Tensor) (string, error) {
	switch t.Kind() {
	case tensor.F32:
		values, err := t.F32s()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%v", values), nil
	case tensor.I32:
		values, err := t.I32s()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%v", values), nil
	case tensor.U8:
		values, err := t.U8s()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%v", values), nil
	}
	return "", tensor.ErrUnsupportedKind
}

func (s *Shell) cmdEmotionTest(_ context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	text := strings.Join(args, " ")

	out, err := s.hal.Emotion.Analyze(text)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Emotional analysis: primary=%s intensity=%.2f\n", out.PrimaryEmotion, out.Intensity)
	return nil
}

func (s *Shell) cmdCelestialAddCloud(_ context.Context, args []string) error {
	if len(args) != 10 {
		return errUsage
	}

	pos, err := parseVec3(args[1:4])
	if err != nil {
		return err
	}
	var rgba [4]uint8
	for i, arg := range args[4:8] {
		v, err := strconv.ParseUint(arg, 10, 8)
		if err != nil {
			return fmt.Errorf("invalid color component %q: %w", arg, err)
		}
		rgba[i] = uint8(v)
	}
	intensity, err := strconv.ParseFloat(args[8], 32)
	if err != nil {
		return fmt.Errorf("invalid intensity %q: %w", args[8], err)
	}

	cloud := celestial.Cloud{
		ID:        args[0],
		Position:  pos,
		Color:     rgba,
		Intensity: float32(intensity),
		Shape:     args[9],
	}
	if err := s.hal.Celestial.StoreCloud(cloud); err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Emotion cloud %s stored.\n", cloud.ID)
	return nil
}

func (s *Shell) cmdCelestialListClouds(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	clouds := s.hal.Celestial.Clouds()
	if len(clouds) == 0 {
		fmt.Fprintln(s.out, "No emotion clouds stored.")
		return nil
	}
	sort.Slice(clouds, func(i, j int) bool { return clouds[i].ID < clouds[j].ID })
	headerColor.Fprintf(s.out, "Emotion clouds (%d):\n", len(clouds))
	for _, c := range clouds {
		fmt.Fprintf(s.out, "  %s pos=%v color=%v intensity=%.2f shape=%s\n",
			c.ID, c.Position, c.Color, c.Intensity, c.Shape)
	}
	return nil
}

func (s *Shell) cmdCelestialRemoveCloud(_ context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage
	}
	if err := s.hal.Celestial.RemoveCloud(args[0]); err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Emotion cloud %s removed.\n", args[0])
	return nil
}

func (s *Shell) cmdCelestialAddNode(_ context.Context, args []string) error {
	if len(args) < 5 {
		return errUsage
	}

	pos, err := parseVec3(args[1:4])
	if err != nil {
		return err
	}
	node := celestial.Node{
		ID:              args[0],
		Position:        pos,
		MemoryRef:       args[4],
		RelatedCloudIDs: append([]string(nil), args[5:]...),
	}
	if err := s.hal.Celestial.StoreNode(node); err != nil {
		return err
	}
	okColor.Fprintf(s.out, "Resonant node %s stored.\n", node.ID)
	return nil
}

func (s *Shell) cmdCelestialListNodes(_ context.Context, args []string) error {
	if len(args) != 0 {
		return errUsage
	}
	nodes := s.hal.Celestial.Nodes()
	if len(nodes) == 0 {
		fmt.Fprintln(s.out, "No resonant nodes stored.")
		return nil
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	headerColor.Fprintf(s.out, "Resonant nodes (%d):\n", len(nodes))
	for _, n := range nodes {
		fmt.Fprintf(s.out, "  %s pos=%v memory=%s", n.ID, n.Position, n.MemoryRef)
		if len(n.RelatedCloudIDs) > 0 {
			fmt.Fprintf(s.out, " clouds=%s", strings.Join(n.RelatedCloudIDs, ","))
		}
		fmt.Fprintln(s.out)
	}
	return nil
}

func parseVec3(args []string) ([3]float32, error) {
	var out [3]float32
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			return out, fmt.Errorf("invalid coordinate %q: %w", arg, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}
