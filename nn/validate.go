package nn

import "strconv"

// layerShape is the declared shape of one dense layer.
type layerShape struct {
	in, out int
}

// networkShape checks that weights and biases describe a chain of dense layers
// and returns the per-layer shapes. Rows of a weight matrix share one length equal
// to the previous layer's output size; each bias vector matches its row count.
func networkShape(op string, weights []Matrix, biases []Vector) ([]layerShape, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyNetwork
	}
	if len(biases) != len(weights) {
		return nil, dimErr(op, "bias layer count", -1, len(biases), len(weights))
	}

	shapes := make([]layerShape, len(weights))
	for l, w := range weights {
		out, in := w.Dims()
		if out == 0 || in == 0 {
			return nil, dimErr(op, "weights size", l, out*in, max(len(biases[l]), 1))
		}
		for i, row := range w {
			if len(row) != in {
				return nil, dimErr(op, "weights row "+strconv.Itoa(i), l, len(row), in)
			}
		}
		if l > 0 && in != shapes[l-1].out {
			return nil, dimErr(op, "weights columns", l, in, shapes[l-1].out)
		}
		if len(biases[l]) != out {
			return nil, dimErr(op, "biases", l, len(biases[l]), out)
		}
		shapes[l] = layerShape{in: in, out: out}
	}
	return shapes, nil
}

// matchShape checks that a gradient or velocity set has exactly the shape of the network.
func matchShape(op, what string, shapes []layerShape, ws []Matrix, bs []Vector) error {
	if len(ws) != len(shapes) {
		return dimErr(op, what+" weight layer count", -1, len(ws), len(shapes))
	}
	if len(bs) != len(shapes) {
		return dimErr(op, what+" bias layer count", -1, len(bs), len(shapes))
	}
	for l, s := range shapes {
		if len(ws[l]) != s.out {
			return dimErr(op, what+" weights rows", l, len(ws[l]), s.out)
		}
		for i, row := range ws[l] {
			if len(row) != s.in {
				return dimErr(op, what+" weights row "+strconv.Itoa(i), l, len(row), s.in)
			}
		}
		if len(bs[l]) != s.out {
			return dimErr(op, what+" biases", l, len(bs[l]), s.out)
		}
	}
	return nil
}
