package doctree

// Flatten returns blocks in reading order (pre-order). Typeless wrappers
// are dropped but their descendants are kept.
func Flatten(blocks []*Block) []*Block {
	var flat []*Block
	Walk(blocks, func(b *Block) {
		if b.Kind != KindNone {
			flat = append(flat, b)
		}
	})
	return flat
}

// Walk visits every block in pre-order, wrappers included.
func Walk(blocks []*Block, visit func(*Block)) {
	Descend(blocks, struct{}{}, func(b *Block, _ struct{}) struct{} {
		visit(b)
		return struct{}{}
	})
}

// Descend walks the tree top-down without recursion, threading a value
// from each block to its children. visit receives the value inherited
// from the parent and returns the value its own children inherit.
func Descend[S any](blocks []*Block, root S, visit func(b *Block, inherited S) S) {
	type frame struct {
		block *Block
		state S
	}
	stack := make([]frame, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		if blocks[i] != nil {
			stack = append(stack, frame{blocks[i], root})
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		next := visit(top.block, top.state)
		children := top.block.Children
		for i := len(children) - 1; i >= 0; i-- {
			if children[i] != nil {
				stack = append(stack, frame{children[i], next})
			}
		}
	}
}

// Number assigns pre-order IDs starting at 0 and returns the node count.
func Number(blocks []*Block) int {
	n := 0
	Walk(blocks, func(b *Block) {
		b.ID = n
		n++
	})
	return n
}
