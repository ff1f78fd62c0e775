package settings

// Context 加载时刻的持久化上下文
type Context struct {
	// Active 是否有已加载的存档（加载画面、主菜单时为 false）
	Active bool
	// Scenario 是否为训练/场景等非持久化上下文
	Scenario bool
	// Save 存档目录名
	Save string
}

// ContextResolver 由宿主集成层提供的上下文解析
type ContextResolver interface {
	Resolve() Context
}

// StaticContext 固定的上下文
type StaticContext Context

// Resolve implements ContextResolver.
func (c StaticContext) Resolve() Context {
	return Context(c)
}

// ContextFunc 函数形式的解析器
type ContextFunc func() Context

// Resolve implements ContextResolver.
func (f ContextFunc) Resolve() Context {
	return f()
}

// persistent 返回主文件位置；没有存档或为场景游戏时返回 false
func (c Context) persistent() (Location, bool) {
	if !c.Active || c.Scenario || c.Save == "" {
		return Location{}, false
	}
	return Location{Save: c.Save, Name: FileName}, true
}
