package convnet

import "github.com/neurlang/textcnn/layer"
import "github.com/neurlang/textcnn/layer/globalpool"
import "github.com/neurlang/textcnn/tensor"

// workspace holds one goroutine's combiners for a forward/backward pass.
type workspace struct {
	convs   []layer.Combiner
	pool    *globalpool.GlobalPool
	out     layer.Combiner
	maps    int
	concat  tensor.Matrix
	dbranch tensor.Matrix
}

func (c *Classifier) lay() *workspace {
	ws := &workspace{maps: c.cfg.FeatureMaps}
	for _, conv := range c.convs {
		ws.convs = append(ws.convs, conv.Lay())
	}
	ws.pool = c.pool.Lay().(*globalpool.GlobalPool)
	ws.out = c.out.Lay()
	return ws
}

// forward returns the logits for x.
func (ws *workspace) forward(x tensor.Matrix, train bool) []float32 {
	channels := len(ws.convs) * ws.maps
	if ws.concat.Rows != x.Rows {
		ws.concat = tensor.NewMatrix(x.Rows, channels)
	}
	for b, conv := range ws.convs {
		o := conv.Forward(x, train)
		for t := 0; t < x.Rows; t++ {
			copy(ws.concat.Row(t)[b*ws.maps:(b+1)*ws.maps], o.Row(t))
		}
	}
	pooled := ws.pool.Forward(ws.concat, train)
	return ws.out.Forward(pooled, train).Data
}

// backward accumulates gradients for the last forward into grads, which is
// aligned with the classifier's parameter order.
func (ws *workspace) backward(dlogits []float32, grads [][]float32) {
	n := len(ws.convs)
	dpooled := ws.out.Backward(tensor.Matrix{Rows: 1, Cols: len(dlogits), Data: dlogits}, grads[2*n:])
	dconcat := ws.pool.Backward(dpooled, nil)
	if ws.dbranch.Rows != dconcat.Rows {
		ws.dbranch = tensor.NewMatrix(dconcat.Rows, ws.maps)
	}
	for b, conv := range ws.convs {
		for t := 0; t < dconcat.Rows; t++ {
			copy(ws.dbranch.Row(t), dconcat.Row(t)[b*ws.maps:(b+1)*ws.maps])
		}
		conv.Backward(ws.dbranch, grads[2*b:2*b+2])
	}
}
