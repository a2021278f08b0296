package debugui

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/scenery/scene"
)

type ObjectInfo struct {
	ID         scene.ObjectID
	Name       string
	Type       string
	Components []string
	Alive      bool
}

type ObjectBrowserCache struct {
	objects       []ObjectInfo
	lastFrame     int64
	lastCount     int
	sortColumn    int
	sortAscending bool
}

// ObjectBrowser lists the objects of the current scene with a text filter
// and paging. The selection is held as a handle so it clears itself once the
// object is gone.
type ObjectBrowser struct {
	cache             *ObjectBrowserCache
	selected          scene.ObjectID
	filterText        string
	maxObjectsPerPage int
	currentPage       int
}

func NewObjectBrowser(maxObjectsPerPage int) *ObjectBrowser {
	return &ObjectBrowser{
		cache: &ObjectBrowserCache{
			lastFrame:     -1,
			sortAscending: true,
		},
		maxObjectsPerPage: maxObjectsPerPage,
	}
}

func (ob *ObjectBrowser) Selected() scene.ObjectID { return ob.selected }

func (ob *ObjectBrowser) Select(id scene.ObjectID) { ob.selected = id }

func (ob *ObjectBrowser) SetFilter(text string) {
	ob.filterText = text
	ob.currentPage = 0
}

func (ob *ObjectBrowser) Render(w *scene.World) {
	if !imgui.BeginV("Object Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ob.Refresh(w)

	if imgui.InputTextWithHint("##search", "Search...", &ob.filterText, imgui.InputTextFlagsNone, nil) {
		ob.currentPage = 0
	}
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		ob.SetFilter("")
	}

	filtered := ob.Filtered()

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ObjectTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("ID")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Type")
		imgui.TableSetupColumn("Components")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			ob.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
			filtered = ob.Filtered()
		}

		start := ob.currentPage * ob.maxObjectsPerPage
		end := min(start+ob.maxObjectsPerPage, len(filtered))

		for i := start; i < end; i++ {
			info := filtered[i]
			imgui.TableNextRow()

			imgui.TableNextColumn()
			isSelected := ob.selected == info.ID
			if imgui.SelectableBoolV(fmt.Sprintf("%d", info.ID), isSelected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				ob.selected = info.ID
			}

			imgui.TableNextColumn()
			if info.Alive {
				imgui.Text(info.Name)
			} else {
				imgui.TextColored(imgui.NewVec4(0.6, 0.6, 0.6, 1), info.Name+" (released)")
			}

			imgui.TableNextColumn()
			imgui.Text(info.Type)

			imgui.TableNextColumn()
			imgui.Text(strings.Join(info.Components, ", "))
		}

		imgui.EndTable()
	}

	if len(filtered) > ob.maxObjectsPerPage {
		totalPages := (len(filtered) + ob.maxObjectsPerPage - 1) / ob.maxObjectsPerPage
		imgui.Text(fmt.Sprintf("Page %d / %d (%d objects)", ob.currentPage+1, totalPages, len(filtered)))
		imgui.SameLine()
		if imgui.Button("Prev") && ob.currentPage > 0 {
			ob.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && ob.currentPage < totalPages-1 {
			ob.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d objects", len(filtered)))
	}

	imgui.End()
}

// Refresh rebuilds the cached listing once per frame, or sooner when the
// object count changed.
func (ob *ObjectBrowser) Refresh(w *scene.World) {
	frame := w.Stats().Frames
	count := w.ObjectCount()
	if ob.cache.objects != nil && ob.cache.lastFrame == frame && ob.cache.lastCount == count {
		return
	}
	ob.cache.lastFrame = frame
	ob.cache.lastCount = count

	ob.cache.objects = make([]ObjectInfo, 0, count)
	for o := range w.Objects() {
		info := ObjectInfo{
			ID:    o.ID(),
			Name:  o.Name(),
			Type:  typeName(o.Actor()),
			Alive: o.IsAlive(),
		}
		for c := range o.Components() {
			info.Components = append(info.Components, typeName(c))
		}
		ob.cache.objects = append(ob.cache.objects, info)
	}
	ob.sortObjects()

	if ob.selected != 0 && w.Lookup(ob.selected) == nil {
		ob.selected = 0
	}
}

// SortBy orders the listing by column: 0 ID, 1 name, 2 type, 3 component
// count.
func (ob *ObjectBrowser) SortBy(column int, ascending bool) {
	ob.cache.sortColumn = column
	ob.cache.sortAscending = ascending
	ob.sortObjects()
}

func (ob *ObjectBrowser) sortObjects() {
	sort.SliceStable(ob.cache.objects, func(i, j int) bool {
		a, b := ob.cache.objects[i], ob.cache.objects[j]
		var less bool

		switch ob.cache.sortColumn {
		case 1:
			less = a.Name < b.Name
		case 2:
			less = a.Type < b.Type
		case 3:
			less = len(a.Components) < len(b.Components)
		default:
			less = a.ID < b.ID
		}

		if !ob.cache.sortAscending {
			return !less
		}
		return less
	})
}

// Filtered returns the cached objects whose ID, name, type or component
// types contain the filter text.
func (ob *ObjectBrowser) Filtered() []ObjectInfo {
	if ob.filterText == "" {
		return ob.cache.objects
	}

	filtered := make([]ObjectInfo, 0, len(ob.cache.objects))
	filterLower := strings.ToLower(ob.filterText)

	for _, info := range ob.cache.objects {
		idStr := fmt.Sprintf("%d", info.ID)
		text := strings.ToLower(info.Name + " " + info.Type + " " + strings.Join(info.Components, " "))
		if !strings.Contains(idStr, filterLower) && !strings.Contains(text, filterLower) {
			continue
		}
		filtered = append(filtered, info)
	}

	return filtered
}

func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
