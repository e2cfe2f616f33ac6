package cli

import (
	"bytes"
	"encoding/json/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grocerylistapp/grocerylist/internal/service"
)

// execute runs the CLI against a throwaway database and returns stdout.
func execute(t *testing.T, dataPath string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(append([]string{
		"--data-path", dataPath,
		"--env-file", "testdata-missing.env",
		"--log-level", "error",
	}, args...))

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_Help(t *testing.T) {
	cmd := NewRootCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	for _, name := range []string{"serve", "show", "add", "edit", "check", "reset", "push", "pull", "ping", "login", "logout", "whoami", "inspect", "version"} {
		assert.Contains(t, buf.String(), name)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "memory", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grocerylist version "+Version)
	assert.Contains(t, out, "Go version:")
}

func TestInvalidConfig(t *testing.T) {
	_, err := execute(t, "memory", "--duplicates", "sometimes", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid duplicate policy")
}

func TestAddShowCheck(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "category", "  Dairy ")
	require.NoError(t, err)
	categoryID := strings.TrimSpace(out)
	require.NotEmpty(t, categoryID)

	out, err = execute(t, dir, "add", "item", categoryID, "Milk", "-q", "2", "-u", "l")
	require.NoError(t, err)
	itemID := strings.TrimSpace(out)
	require.NotEmpty(t, itemID)

	out, err = execute(t, dir, "show", "--format", "json")
	require.NoError(t, err)

	var view service.ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Categories, 1)
	assert.Equal(t, "DAIRY", view.Categories[0].Category.Text)
	require.Len(t, view.Categories[0].Items, 1)
	item := view.Categories[0].Items[0]
	assert.Equal(t, "MILK", item.Text)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, "l", item.QuantityUnit)

	out, err = execute(t, dir, "check", itemID)
	require.NoError(t, err)
	assert.Equal(t, "MILK checked\n", out)

	out, err = execute(t, dir, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[-] DAIRY")
	assert.Contains(t, out, "[x] MILK x2 l")

	out, err = execute(t, dir, "show", "--shown", "unchecked")
	require.NoError(t, err)
	assert.Equal(t, "No UNCHECKED items to be displayed...\n", out)
}

func TestAddCategory_Duplicate(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "add", "category", "Fruit")
	require.NoError(t, err)

	_, err = execute(t, dir, "add", "category", "fruit")
	require.ErrorIs(t, err, service.ErrDuplicateCategory)

	_, err = execute(t, dir, "--duplicates", "allow", "add", "category", "fruit")
	require.NoError(t, err)
}

func TestAddItem_InvalidQuantityLeavesNoPlaceholder(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "category", "Bakery")
	require.NoError(t, err)
	categoryID := strings.TrimSpace(out)

	_, err = execute(t, dir, "add", "item", categoryID, "Bread", "-q", "0")
	require.Error(t, err)

	out, err = execute(t, dir, "show", "--format", "json")
	require.NoError(t, err)
	var view service.ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Categories, 1)
	assert.Empty(t, view.Categories[0].Items)
}

func TestAddItem_DuplicateLeavesNoTrace(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "category", "Dairy")
	require.NoError(t, err)
	categoryID := strings.TrimSpace(out)

	_, err = execute(t, dir, "add", "item", categoryID, "Milk")
	require.NoError(t, err)

	_, err = execute(t, dir, "add", "item", categoryID, "milk", "-q", "3")
	require.ErrorIs(t, err, service.ErrDuplicateItem)

	out, err = execute(t, dir, "show", "--format", "json")
	require.NoError(t, err)
	var view service.ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Categories, 1)
	require.Len(t, view.Categories[0].Items, 1)
	assert.Equal(t, 1, view.Categories[0].Items[0].Quantity)

	out, err = execute(t, dir, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "Pending deletions: 0 categories, 0 items")
}

func TestAddItem_UnknownCategory(t *testing.T) {
	_, err := execute(t, "memory", "add", "item", "missing", "Milk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category missing not found")
}

func TestEdit(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "category", "Dairy")
	require.NoError(t, err)
	categoryID := strings.TrimSpace(out)
	_, err = execute(t, dir, "add", "category", "Fruit")
	require.NoError(t, err)

	out, err = execute(t, dir, "add", "item", categoryID, "Milk", "-p", "$1.20")
	require.NoError(t, err)
	milkID := strings.TrimSpace(out)
	_, err = execute(t, dir, "add", "item", categoryID, "Eggs")
	require.NoError(t, err)

	out, err = execute(t, dir, "edit", "item", milkID, "-q", "4", "-u", "l")
	require.NoError(t, err)
	assert.Equal(t, milkID+" updated\n", out)

	_, err = execute(t, dir, "edit", "item", milkID, "--text", "eggs")
	require.ErrorIs(t, err, service.ErrDuplicateItem)

	_, err = execute(t, dir, "edit", "category", categoryID, "--text", "fruit")
	require.ErrorIs(t, err, service.ErrDuplicateCategory)

	_, err = execute(t, dir, "edit", "category", categoryID, "--open=false")
	require.NoError(t, err)

	out, err = execute(t, dir, "show", "--format", "json")
	require.NoError(t, err)
	var view service.ListView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	require.Len(t, view.Categories, 2)
	dairy := view.Categories[1]
	assert.Equal(t, "DAIRY", dairy.Category.Text)
	assert.False(t, dairy.Category.IsOpen)
	require.Len(t, dairy.Items, 2)
	milk := dairy.Items[0]
	assert.Equal(t, "MILK", milk.Text)
	assert.Equal(t, 4, milk.Quantity)
	assert.Equal(t, "l", milk.QuantityUnit)
	assert.Equal(t, "$1.20", milk.GoodPrice)

	_, err = execute(t, dir, "edit", "item", "missing", "-q", "2")
	require.Error(t, err)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, dir, "add", "category", "Frozen")
	require.NoError(t, err)

	_, err = execute(t, dir, "reset")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, dir, "reset", "--force")
	require.NoError(t, err)

	out, err := execute(t, dir, "show")
	require.NoError(t, err)
	assert.Equal(t, "List is empty...\n", out)
}

func TestPush_RequiresLogin(t *testing.T) {
	_, err := execute(t, "memory", "push")
	require.Error(t, err)
	assert.Contains(t, err.Error(), service.MessageNotLoggedIn)
}

func TestWhoami_Guest(t *testing.T) {
	out, err := execute(t, "memory", "whoami", "--format", "json")
	require.NoError(t, err)

	var info sessionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.False(t, info.LoggedIn)
	require.NotNil(t, info.User)
	assert.NotEmpty(t, info.User.UserID)
	assert.Equal(t, "http://localhost:5000/api", info.BaseURL)
	assert.NotContains(t, out, "token")
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "add", "category", "Pantry")
	require.NoError(t, err)
	categoryID := strings.TrimSpace(out)

	out, err = execute(t, dir, "add", "item", categoryID, "Rice")
	require.NoError(t, err)
	itemID := strings.TrimSpace(out)

	_, err = execute(t, dir, "check", itemID)
	require.NoError(t, err)

	out, err = execute(t, dir, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "Path: "+dir)
	assert.Contains(t, out, "data ")
	assert.Contains(t, out, "Categories: 1 (1 open)")
	assert.Contains(t, out, "Items: 1 (1 checked)")
	assert.Contains(t, out, "Pending deletions: 0 categories, 0 items")
	assert.Contains(t, out, "Session: local only")
}
