package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/zackbart/codebrowser/internal/browser"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case mountMsg:
		if m.mounted {
			return m, nil
		}
		m.mounted = true
		next, eff := m.browser.Mount(m.state, m.preselected)
		m.apply("mount", next, eff)
		if m.preselected != "" && m.tree != nil {
			m.tree.Reveal(m.state.Selected)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		next, eff := m.browser.Refresh(m.state)
		m.apply("resize", next, eff)
		return m, nil

	case fileChangedMsg:
		next, eff := m.browser.Reload(m.state, msg.path)
		m.apply("reload", next, eff)
		return m, waitForChange(m.watcher)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleFiles):
		next, eff := m.browser.ToggleTree(m.state)
		m.apply("toggle-tree", next, eff)
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Theme):
		next, eff := m.browser.CycleTheme(m.state)
		m.apply("cycle-theme", next, eff)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.content.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.content.GotoBottom()
		return m, nil
	}

	if m.state.TreeVisible && m.tree != nil {
		switch {
		case key.Matches(msg, m.keys.Up):
			m.tree.MoveUp()
			return m, nil
		case key.Matches(msg, m.keys.Down):
			m.tree.MoveDown()
			return m, nil
		case key.Matches(msg, m.keys.Collapse):
			m.tree.Collapse()
			return m, nil
		case key.Matches(msg, m.keys.Open):
			path, clicked, err := m.tree.Open()
			if err != nil {
				m.status = err.Error()
				return m, nil
			}
			if clicked {
				next, eff := m.browser.SelectFile(m.state, path)
				m.apply("select", next, eff)
				m.layout()
			}
			return m, nil
		case key.Matches(msg, m.keys.Hidden):
			if err := m.tree.SetShowHidden(!m.tree.ShowHidden()); err != nil {
				m.status = err.Error()
			}
			return m, nil
		case key.Matches(msg, m.keys.Reload):
			if err := m.tree.Reload(); err != nil {
				m.status = err.Error()
			}
			next, eff := m.browser.Refresh(m.state)
			m.apply("reload", next, eff)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.content, cmd = m.content.Update(msg)
	return m, cmd
}

// apply stores the transition's state and carries out its effect. Renders
// run synchronously: the next message is not handled until this one is
// displayed.
func (m *Model) apply(name string, next browser.State, eff browser.Effect) {
	m.state = next
	m.content.KeyMap = m.keys.contentKeys(next.TreeVisible)

	m.log.WithFields(logrus.Fields{
		"transition": name,
		"selected":   next.Selected,
		"theme":      m.browser.Theme(next),
		"tree":       next.TreeVisible,
	}).Debug("transition")

	if eff.Banner != "" {
		m.banner = eff.Banner
		m.result = nil
		m.status = ""
		m.content.SetContent(bannerStyle.Render(eff.Banner))
		m.content.GotoTop()
	}

	req := eff.Render
	if req == nil {
		return
	}
	res := m.renderer.Render(req.Path, req.Theme)
	m.result = &res
	m.banner = ""
	if res.Failed() {
		m.content.SetContent(errorBannerStyle.Render(res.Text))
		m.status = fmt.Sprintf("ERROR [%s]", req.Theme)
	} else {
		m.content.SetContent(res.Styled)
		m.status = fmt.Sprintf("%s [%s]", req.Path, req.Theme)
	}
	if req.ScrollToTop {
		m.content.GotoTop()
		m.content.SetXOffset(0)
		if m.watcher != nil {
			if err := m.watcher.Watch(req.Path); err != nil {
				m.log.WithError(err).Warn("watch failed")
			}
		}
	}
}
