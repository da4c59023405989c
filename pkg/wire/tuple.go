// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package wire

// Tuples group up to seven heterogeneous values. Fields are encoded and
// decoded in declaration order. Decode stages every element in a copy of the
// current one and assigns them only after all have been read, so an element
// such as an Array keeps its storage across decodes.

// Tuple1 holds one value.
type Tuple1[T0 any, P0 Codec[T0]] struct {
	A T0
}

func (t *Tuple1[T0, P0]) Encode(dst Sink) error {
	return P0(&t.A).Encode(dst)
}

func (t *Tuple1[T0, P0]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	t.A = a
	return nil
}

// Tuple2 holds two values.
type Tuple2[T0, T1 any, P0 Codec[T0], P1 Codec[T1]] struct {
	A T0
	B T1
}

func (t *Tuple2[T0, T1, P0, P1]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	return P1(&t.B).Encode(dst)
}

func (t *Tuple2[T0, T1, P0, P1]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	t.A, t.B = a, b
	return nil
}

// Tuple3 holds three values.
type Tuple3[T0, T1, T2 any, P0 Codec[T0], P1 Codec[T1], P2 Codec[T2]] struct {
	A T0
	B T1
	C T2
}

func (t *Tuple3[T0, T1, T2, P0, P1, P2]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	if err := P1(&t.B).Encode(dst); err != nil {
		return err
	}
	return P2(&t.C).Encode(dst)
}

func (t *Tuple3[T0, T1, T2, P0, P1, P2]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	c := t.C
	if err := P2(&c).Decode(src); err != nil {
		return err
	}
	t.A, t.B, t.C = a, b, c
	return nil
}

// Tuple4 holds four values.
type Tuple4[T0, T1, T2, T3 any, P0 Codec[T0], P1 Codec[T1], P2 Codec[T2], P3 Codec[T3]] struct {
	A T0
	B T1
	C T2
	D T3
}

func (t *Tuple4[T0, T1, T2, T3, P0, P1, P2, P3]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	if err := P1(&t.B).Encode(dst); err != nil {
		return err
	}
	if err := P2(&t.C).Encode(dst); err != nil {
		return err
	}
	return P3(&t.D).Encode(dst)
}

func (t *Tuple4[T0, T1, T2, T3, P0, P1, P2, P3]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	c := t.C
	if err := P2(&c).Decode(src); err != nil {
		return err
	}
	d := t.D
	if err := P3(&d).Decode(src); err != nil {
		return err
	}
	t.A, t.B, t.C, t.D = a, b, c, d
	return nil
}

// Tuple5 holds five values.
type Tuple5[T0, T1, T2, T3, T4 any, P0 Codec[T0], P1 Codec[T1], P2 Codec[T2], P3 Codec[T3], P4 Codec[T4]] struct {
	A T0
	B T1
	C T2
	D T3
	E T4
}

func (t *Tuple5[T0, T1, T2, T3, T4, P0, P1, P2, P3, P4]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	if err := P1(&t.B).Encode(dst); err != nil {
		return err
	}
	if err := P2(&t.C).Encode(dst); err != nil {
		return err
	}
	if err := P3(&t.D).Encode(dst); err != nil {
		return err
	}
	return P4(&t.E).Encode(dst)
}

func (t *Tuple5[T0, T1, T2, T3, T4, P0, P1, P2, P3, P4]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	c := t.C
	if err := P2(&c).Decode(src); err != nil {
		return err
	}
	d := t.D
	if err := P3(&d).Decode(src); err != nil {
		return err
	}
	e := t.E
	if err := P4(&e).Decode(src); err != nil {
		return err
	}
	t.A, t.B, t.C, t.D, t.E = a, b, c, d, e
	return nil
}

// Tuple6 holds six values.
type Tuple6[T0, T1, T2, T3, T4, T5 any, P0 Codec[T0], P1 Codec[T1], P2 Codec[T2], P3 Codec[T3], P4 Codec[T4], P5 Codec[T5]] struct {
	A T0
	B T1
	C T2
	D T3
	E T4
	F T5
}

func (t *Tuple6[T0, T1, T2, T3, T4, T5, P0, P1, P2, P3, P4, P5]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	if err := P1(&t.B).Encode(dst); err != nil {
		return err
	}
	if err := P2(&t.C).Encode(dst); err != nil {
		return err
	}
	if err := P3(&t.D).Encode(dst); err != nil {
		return err
	}
	if err := P4(&t.E).Encode(dst); err != nil {
		return err
	}
	return P5(&t.F).Encode(dst)
}

func (t *Tuple6[T0, T1, T2, T3, T4, T5, P0, P1, P2, P3, P4, P5]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	c := t.C
	if err := P2(&c).Decode(src); err != nil {
		return err
	}
	d := t.D
	if err := P3(&d).Decode(src); err != nil {
		return err
	}
	e := t.E
	if err := P4(&e).Decode(src); err != nil {
		return err
	}
	f := t.F
	if err := P5(&f).Decode(src); err != nil {
		return err
	}
	t.A, t.B, t.C, t.D, t.E, t.F = a, b, c, d, e, f
	return nil
}

// Tuple7 holds seven values.
type Tuple7[T0, T1, T2, T3, T4, T5, T6 any, P0 Codec[T0], P1 Codec[T1], P2 Codec[T2], P3 Codec[T3], P4 Codec[T4], P5 Codec[T5], P6 Codec[T6]] struct {
	A T0
	B T1
	C T2
	D T3
	E T4
	F T5
	G T6
}

func (t *Tuple7[T0, T1, T2, T3, T4, T5, T6, P0, P1, P2, P3, P4, P5, P6]) Encode(dst Sink) error {
	if err := P0(&t.A).Encode(dst); err != nil {
		return err
	}
	if err := P1(&t.B).Encode(dst); err != nil {
		return err
	}
	if err := P2(&t.C).Encode(dst); err != nil {
		return err
	}
	if err := P3(&t.D).Encode(dst); err != nil {
		return err
	}
	if err := P4(&t.E).Encode(dst); err != nil {
		return err
	}
	if err := P5(&t.F).Encode(dst); err != nil {
		return err
	}
	return P6(&t.G).Encode(dst)
}

func (t *Tuple7[T0, T1, T2, T3, T4, T5, T6, P0, P1, P2, P3, P4, P5, P6]) Decode(src Source) error {
	a := t.A
	if err := P0(&a).Decode(src); err != nil {
		return err
	}
	b := t.B
	if err := P1(&b).Decode(src); err != nil {
		return err
	}
	c := t.C
	if err := P2(&c).Decode(src); err != nil {
		return err
	}
	d := t.D
	if err := P3(&d).Decode(src); err != nil {
		return err
	}
	e := t.E
	if err := P4(&e).Decode(src); err != nil {
		return err
	}
	f := t.F
	if err := P5(&f).Decode(src); err != nil {
		return err
	}
	g := t.G
	if err := P6(&g).Decode(src); err != nil {
		return err
	}
	t.A, t.B, t.C, t.D, t.E, t.F, t.G = a, b, c, d, e, f, g
	return nil
}

// ExactLen sums the element lengths.
func (t *Tuple1[T0, P0]) ExactLen() int {
	return elemLen(P0(&t.A))
}

// ExactLen sums the element lengths.
func (t *Tuple2[T0, T1, P0, P1]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B))
}

// ExactLen sums the element lengths.
func (t *Tuple3[T0, T1, T2, P0, P1, P2]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B)) + elemLen(P2(&t.C))
}

// ExactLen sums the element lengths.
func (t *Tuple4[T0, T1, T2, T3, P0, P1, P2, P3]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B)) + elemLen(P2(&t.C)) + elemLen(P3(&t.D))
}

// ExactLen sums the element lengths.
func (t *Tuple5[T0, T1, T2, T3, T4, P0, P1, P2, P3, P4]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B)) + elemLen(P2(&t.C)) + elemLen(P3(&t.D)) + elemLen(P4(&t.E))
}

// ExactLen sums the element lengths.
func (t *Tuple6[T0, T1, T2, T3, T4, T5, P0, P1, P2, P3, P4, P5]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B)) + elemLen(P2(&t.C)) + elemLen(P3(&t.D)) + elemLen(P4(&t.E)) + elemLen(P5(&t.F))
}

// ExactLen sums the element lengths.
func (t *Tuple7[T0, T1, T2, T3, T4, T5, T6, P0, P1, P2, P3, P4, P5, P6]) ExactLen() int {
	return elemLen(P0(&t.A)) + elemLen(P1(&t.B)) + elemLen(P2(&t.C)) + elemLen(P3(&t.D)) + elemLen(P4(&t.E)) + elemLen(P5(&t.F)) + elemLen(P6(&t.G))
}
