package compiler

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/updatesynth/internal/ir"
)

// scenarioComponent is the two-statement component where prop x_dep reaches
// statement b through local l1.
func scenarioComponent(t *testing.T, tx bool) *ir.Component {
	return componentFixture{
		statements: []ir.Statement{
			{Key: "a", Deps: []ir.Descriptor{ir.Prop("x")}},
			{Key: "b", Deps: []ir.Descriptor{ir.Local("l1")}},
		},
		variables: [][2]any{
			{"local,l1", []string{"state,b"}},
			{"prop,x_dep", []string{"local,l1"}},
		},
		body: []string{"update_a", "update_b"},
		tx:   tx,
	}.build(t)
}

func TestSynthesize_PropScenario(t *testing.T) {
	u, err := Synthesize(testContext(scenarioComponent(t, false)), ir.CategoryProp)
	require.NoError(t, err)

	assert.False(t, u.IsNoOp())
	assert.Equal(t, []string{"update_b"}, u.Universe.Updaters)
	assert.Equal(t,
		`propUpdater($$props, [update_b], [["x_dep", [0]]], true)`,
		u.Code(false))
	assert.Equal(t,
		`propUpdater($$props, [update_b], [["x_dep", [0 /* update_b */]]], true)`,
		u.Code(true))
}

func TestSynthesize_ArgumentShape(t *testing.T) {
	u, err := Synthesize(testContext(scenarioComponent(t, false)), ir.CategoryProp)
	require.NoError(t, err)

	call, ok := u.Expr.(*ir.CallExpr)
	require.True(t, ok)
	assert.Equal(t, &ir.Ident{Name: DefaultDispatcher}, call.Callee)
	require.Len(t, call.Args, 4, "no transaction container without the flag")

	assert.Equal(t, &ir.Ident{Name: DefaultPropsVar}, call.Args[0])
	assert.Equal(t, &ir.ArrayExpr{Elems: []ir.Expr{&ir.Ident{Name: "update_b"}}}, call.Args[1])
	assert.Equal(t, &ir.BoolLit{Value: true}, call.Args[3], "props compare shallowly")
}

func TestSynthesize_TransactionContainer(t *testing.T) {
	u, err := Synthesize(testContext(scenarioComponent(t, true)), ir.CategoryProp)
	require.NoError(t, err)

	call := u.Expr.(*ir.CallExpr)
	require.Len(t, call.Args, 5)
	assert.Equal(t, &ir.Ident{Name: DefaultTransactionVar}, call.Args[4], "transaction container is the final argument")
}

func TestSynthesize_StateCategory(t *testing.T) {
	comp := componentFixture{
		statements: []ir.Statement{{Key: "a"}, {Key: "b"}},
		variables: [][2]any{
			{"state,count", []string{"state,b", "state,a"}},
		},
		body: []string{"update_a", "update_b"},
		tx:   true,
	}.build(t)

	u, err := Synthesize(testContext(comp), ir.CategoryState)
	require.NoError(t, err)

	assert.Equal(t,
		`propUpdater($$state, [update_a, update_b], [["count", [1, 0]]], false, $$propsTransaction)`,
		u.Code(false))
}

func TestSynthesize_NoOpWhenCategoryEmpty(t *testing.T) {
	u, err := Synthesize(testContext(scenarioComponent(t, true)), ir.CategoryState)
	require.NoError(t, err)

	require.True(t, u.IsNoOp())
	fn := u.Expr.(*ir.ArrowFunc)
	assert.Empty(t, fn.Params)
	assert.Empty(t, fn.Body)
	assert.Equal(t, "() => {}", u.Code(true))
}

func TestSynthesize_CustomOptions(t *testing.T) {
	ctx := testContext(scenarioComponent(t, true))
	ctx.Options = Options{Dispatcher: "dispatch", PropsVar: "prev", TransactionVar: "tx"}

	u, err := Synthesize(ctx, ir.CategoryProp)
	require.NoError(t, err)
	assert.Equal(t, `dispatch(prev, [update_b], [["x_dep", [0]]], true, tx)`, u.Code(false))
}

func TestSynthesize_CustomNamer(t *testing.T) {
	ctx := testContext(scenarioComponent(t, false))
	ctx.Component.Body = calls("$a", "$b")
	ctx.Namer = func(s ir.Statement) (string, error) { return "$" + s.Key, nil }

	u, err := Synthesize(ctx, ir.CategoryProp)
	require.NoError(t, err)
	assert.Equal(t, []string{"$b"}, u.Universe.Updaters)
}

func TestSynthesize_Deterministic(t *testing.T) {
	build := func() *Updater {
		comp := componentFixture{
			statements: []ir.Statement{{Key: "a"}, {Key: "b"}, {Key: "c"}, {Key: "d"}},
			variables: [][2]any{
				{"local,l", []string{"prop,c", "prop,a"}},
				{"prop,p", []string{"local,l", "prop,d"}},
				{"prop,q", []string{"prop,b"}},
			},
			body:    []string{"update_b", "update_a"},
			finally: []string{"update_d", "update_c"},
		}.build(t)
		u, err := Synthesize(testContext(comp), ir.CategoryProp)
		require.NoError(t, err)
		return u
	}

	first := build()
	for i := 0; i < 5; i++ {
		next := build()
		assert.Equal(t, first.Expr, next.Expr)
		assert.Equal(t, first.Universe, next.Universe)
		assert.Equal(t, first.Code(true), next.Code(true))
	}
	assert.Equal(t,
		`propUpdater($$props, [update_b, update_a, update_d, update_c], [["p", [3, 1, 2]], ["q", [0]]], true)`,
		first.Code(false))
}

func TestSynthesize_WarnsOnUninvokedUpdater(t *testing.T) {
	comp := componentFixture{
		statements: []ir.Statement{{Key: "a"}, {Key: "ghost"}},
		variables:  [][2]any{{"prop,x", []string{"prop,a"}}},
		body:       []string{"update_a"},
	}.build(t)

	u, err := Synthesize(testContext(comp), ir.CategoryProp)
	require.NoError(t, err)
	require.Len(t, u.Warnings, 1)
	assert.Contains(t, u.Warnings[0], "update_ghost")
}

func TestSynthesize_FailsFully(t *testing.T) {
	comp := componentFixture{
		statements: []ir.Statement{{Key: "a"}},
		variables: [][2]any{
			{"local,l1", []string{"local,l2"}},
			{"local,l2", []string{"local,l1"}},
			{"prop,x", []string{"prop,a"}},
			{"prop,y", []string{"local,l1"}},
		},
		body: []string{"update_a"},
	}.build(t)

	u, err := Synthesize(testContext(comp), ir.CategoryProp)
	require.Error(t, err)
	assert.Nil(t, u, "no partial output")
	assert.True(t, IsCycleError(err))
	assert.Contains(t, err.Error(), "prop,y")
}

func TestSynthesize_InvalidInput(t *testing.T) {
	_, err := Synthesize(nil, ir.CategoryProp)
	assert.Equal(t, ErrCodeMissingComponent, ErrorCode(err))

	_, err = Synthesize(testContext(scenarioComponent(t, false)), ir.CategoryLocal)
	assert.Equal(t, ErrCodeInvalidCategory, ErrorCode(err))
}

func TestSynthesizeAll(t *testing.T) {
	updaters, err := SynthesizeAll(testContext(scenarioComponent(t, false)))
	require.NoError(t, err)
	require.Len(t, updaters, 2)

	assert.Equal(t, ir.CategoryProp, updaters[0].Category)
	assert.False(t, updaters[0].IsNoOp())
	assert.Equal(t, ir.CategoryState, updaters[1].Category)
	assert.True(t, updaters[1].IsNoOp())
}

func TestSynthesizeAll_WrapsCategory(t *testing.T) {
	comp := componentFixture{
		statements: []ir.Statement{{Key: "a"}},
		variables:  [][2]any{{"state,s", []string{"local,missing"}}},
		body:       []string{"update_a"},
	}.build(t)

	_, err := SynthesizeAll(testContext(comp))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state updater")
	assert.True(t, IsMissingReference(err))
}

func TestUpdaterHash(t *testing.T) {
	u1, err := Synthesize(testContext(scenarioComponent(t, false)), ir.CategoryProp)
	require.NoError(t, err)
	u2, err := Synthesize(testContext(scenarioComponent(t, true)), ir.CategoryProp)
	require.NoError(t, err)

	h1, err := u1.Hash()
	require.NoError(t, err)
	h2, err := u2.Hash()
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestSynthesize_LogsStages(t *testing.T) {
	var buf bytes.Buffer
	ctx := testContext(scenarioComponent(t, false))
	ctx.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := Synthesize(ctx, ir.CategoryProp)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "dependency universe")
	assert.Contains(t, buf.String(), "component=Test")
}
