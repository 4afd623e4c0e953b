package atn

// Token types shared by the fixtures.
const (
	tokA = 1
	tokB = 2
	tokC = 3
)

// parserFixture is the serialized form of
//
//	s : A b ;
//	b : B | C ;
//
// States: 0/1 start/stop of s, 2/3 start/stop of b, 4 and 5 inside s,
// 6/7 the block of b, 8 and 9 its alternatives.
func parserFixture() []int32 {
	return []int32{
		4, 1, 3,
		10,
		2, 0, 7, 0, 2, 1, 7, 1, 1, 0, 1, 0, 3, 1, 7, 8, 1, 1, 1, 1, 1,
		0, 0,
		2, 0, 2,
		0,
		0,
		9,
		0, 4, 5, tokA, 0, 0,
		2, 6, 1, 0, 0, 0,
		4, 5, 3, 2, 1, 0,
		5, 1, 1, 0, 0, 0,
		6, 8, 1, 0, 0, 0,
		6, 9, 1, 0, 0, 0,
		7, 3, 1, 0, 0, 0,
		8, 7, 5, tokB, 0, 0,
		9, 7, 5, tokC, 0, 0,
		1, 6,
	}
}

// lexerFixture is the serialized form of a lexer with one mode and
//
//	ID : [a-z] -> skip ;
func lexerFixture() []int32 {
	return []int32{
		4, 0, 1,
		4,
		6, -1, 2, 0, 7, 0, 1, 0,
		0, 0,
		1, 1, 1,
		1, 0,
		1, 1, 0, 'a', 'z',
		3,
		0, 1, 1, 0, 0, 0,
		1, 3, 7, 0, 0, 0,
		3, 2, 6, 0, 0, 0,
		1, 0,
		1, 6, 0, 0,
	}
}

func mustDeserialize(data []int32) *ATN {
	a, err := NewDeserializer(DefaultOptions()).Deserialize(data)
	if err != nil {
		panic(err)
	}
	return a
}
