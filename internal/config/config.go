package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Log    LogConfig    `toml:"log"`
	Source SourceConfig `toml:"source"`
	Output OutputConfig `toml:"output"`

	ActiveProfile string              `toml:"active_profile" validate:"required"`
	Profiles      map[string]*Profile `toml:"profiles" validate:"required,min=1"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port" validate:"gte=0,lte=65535"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"`
	// 运行记录库文件名（位于数据目录下）；为空则不记录
	RunLog string `toml:"run_log"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=trace debug info warn error"`
}

// SourceConfig 月度跟踪表来源
type SourceConfig struct {
	Workbook            string `toml:"workbook"`
	Range               string `toml:"range" validate:"required"`
	MonthTimeoutSeconds int    `toml:"month_timeout_seconds" validate:"gt=0"`
	Workers             int    `toml:"workers" validate:"gt=0"`
}

// OutputConfig 汇总结果输出端
type OutputConfig struct {
	Workbook string `toml:"workbook"`
	Append   bool   `toml:"append"`
}

// Profile 报表口径（不同报表之间部门白名单、列布局、目标单位等存在差异）
type Profile struct {
	Name string `toml:"-"`

	Columns        []string          `toml:"columns" validate:"min=1"`
	VerifyHeaders  bool              `toml:"verify_headers"`
	Departments    []string          `toml:"departments"`
	Indicators     []string          `toml:"indicators"`
	IndicatorTypes map[string]string `toml:"indicator_types"`
	DefaultType    string            `toml:"default_type" validate:"required"`

	// 本月目标换算系数（万元 → 元为 10000）
	TargetScale float64 `toml:"target_scale" validate:"gt=0"`
	// 汇报单位（金额列统一除以该值）
	ReportUnit float64 `toml:"report_unit" validate:"gt=0"`

	OrderCategory string `toml:"order_category" validate:"required"`
	BookedScope   string `toml:"booked_scope" validate:"oneof=orders all"`
	NewOrderOwner string `toml:"new_order_owner" validate:"oneof=inherit unassigned"`
	CategoryFill  string `toml:"category_fill" validate:"oneof=backward both"`
	Granularity   string `toml:"granularity" validate:"oneof=department salesperson indicator indicator_department indicator_salesperson"`

	CenterDepartment string `toml:"center_department" validate:"required"`
	CenterLabel      string `toml:"center_label" validate:"required"`
	DepartmentLabel  string `toml:"department_label" validate:"required"`

	InHandCategories      []string `toml:"in_hand_categories"`
	NegotiationCategories []string `toml:"negotiation_categories"`

	OutputRange   string `toml:"output_range" validate:"required"`
	OutputSection string `toml:"output_section" validate:"required"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string
	FromFile      bool
	PortSpecified bool
}

const (
	OrderCategoryExpectedShipment = "本月预计发货订单"
	OrderCategoryConfirmed        = "已确认订单（明确本月不发货）"
	OrderCategoryNegotiation      = "洽谈中"

	BookedScopeOrders = "orders"
	BookedScopeAll    = "all"

	NewOrderOwnerInherit    = "inherit"
	NewOrderOwnerUnassigned = "unassigned"

	CategoryFillBackward = "backward"
	CategoryFillBoth     = "both"
)

// DefaultIndicatorTypes 二级指标 → 类型
func DefaultIndicatorTypes() map[string]string {
	return map[string]string{
		"新连锁开发-区域":   "拓展",
		"ODM开发+增量":   "固本",
		"区域新连锁开发":    "拓展",
		"经销商开发-重点空白": "拓展",
		"其他":         "其他",
		"经销商增量-占比低":  "固本",
		"ODM增量":      "固本",
		"新连锁开发-全球":   "拓展",
		"现有连锁增量":     "固本",
		"经销商增量-占比高":  "固本",
		"经销商开发":      "拓展",
		"ODM开发":      "拓展",
		"全球新连锁开发":    "拓展",
	}
}

// RollupColumns 开单+船期跟踪表列布局
var RollupColumns = []string{
	"部门", "类目", "业务员", "本月目标", "客户名称", "新连锁开发-区域", "订单号", "订单金额(美金)",
	"预计开单金额", "已开单金额", "已开船金额", "汇率", "发货进度", "发货进度补充说明", "更新时间",
	"产品交期", "装柜日期", "开船日期", "本月可发出概率", "目前完成情况",
}

// IndicatorColumns 二级指标跟踪表列布局
var IndicatorColumns = []string{
	"部门", "类目", "业务员", "本月目标", "客户名称", "二级指标",
	"订单号", "订单金额(美金)", "预计开单金额", "已开单金额", "已开船金额", "汇率",
	"产品交期", "装柜日期", "开船日期", "发货最新进度", "客户型号", "数量",
	"单价", "备注",
}

// OrderBookColumns 在手订单统计表列布局
var OrderBookColumns = []string{
	"部门", "类目", "业务员", "本月目标", "客户名称", "新连锁开发-区域",
	"订单号", "订单金额(美金)", "预计开单金额", "已开单金额", "已开船金额", "汇率",
	"产品交期", "装柜日期", "开船日期", "发货最新进度", "客户型号", "数量",
	"单价", "备注",
}

// DefaultProfiles 三种报表口径
func DefaultProfiles() map[string]*Profile {
	indicators := make([]string, 0, 13)
	for k := range DefaultIndicatorTypes() {
		indicators = append(indicators, k)
	}
	sort.Strings(indicators)

	return map[string]*Profile{
		"rollup": {
			Columns:               append([]string(nil), RollupColumns...),
			Departments:           []string{"亚太", "亚非", "欧洲事业部", "美洲"},
			IndicatorTypes:        DefaultIndicatorTypes(),
			DefaultType:           "其他",
			TargetScale:           10000,
			ReportUnit:            10000,
			OrderCategory:         OrderCategoryExpectedShipment,
			BookedScope:           BookedScopeOrders,
			NewOrderOwner:         NewOrderOwnerInherit,
			CategoryFill:          CategoryFillBackward,
			Granularity:           "salesperson",
			CenterDepartment:      "国际营销中心",
			CenterLabel:           "（中心合计）",
			DepartmentLabel:       "（部门合计）",
			InHandCategories:      []string{OrderCategoryExpectedShipment, OrderCategoryConfirmed},
			NegotiationCategories: []string{OrderCategoryNegotiation},
			OutputRange:           "A1:V620",
			OutputSection:         "开单+船期",
		},
		"indicator": {
			Columns:               append([]string(nil), IndicatorColumns...),
			Departments:           []string{"亚太", "亚非", "欧洲事业部", "美洲大区"},
			Indicators:            indicators,
			IndicatorTypes:        DefaultIndicatorTypes(),
			DefaultType:           "其他",
			TargetScale:           1,
			ReportUnit:            10000,
			OrderCategory:         OrderCategoryExpectedShipment,
			BookedScope:           BookedScopeAll,
			NewOrderOwner:         NewOrderOwnerInherit,
			CategoryFill:          CategoryFillBackward,
			Granularity:           "indicator_salesperson",
			CenterDepartment:      "国际营销中心",
			CenterLabel:           "（中心合计）",
			DepartmentLabel:       "（部门合计）",
			InHandCategories:      []string{OrderCategoryExpectedShipment, OrderCategoryConfirmed},
			NegotiationCategories: []string{OrderCategoryNegotiation},
			OutputRange:           "A1:V620",
			OutputSection:         "二级指标",
		},
		"orderbook": {
			Columns:               append([]string(nil), OrderBookColumns...),
			IndicatorTypes:        DefaultIndicatorTypes(),
			DefaultType:           "其他",
			TargetScale:           1,
			ReportUnit:            10000,
			OrderCategory:         OrderCategoryExpectedShipment,
			BookedScope:           BookedScopeOrders,
			NewOrderOwner:         NewOrderOwnerInherit,
			CategoryFill:          CategoryFillBoth,
			Granularity:           "department",
			CenterDepartment:      "国际营销中心",
			CenterLabel:           "（中心合计）",
			DepartmentLabel:       "（部门合计）",
			InHandCategories:      []string{OrderCategoryExpectedShipment, OrderCategoryConfirmed},
			NegotiationCategories: []string{OrderCategoryNegotiation},
			OutputRange:           "A1:V620",
			OutputSection:         "在手订单",
		},
	}
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	cfg := &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			RunLog:  "salestrack.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Source: SourceConfig{
			Workbook:            "",
			Range:               "A1:T1000",
			MonthTimeoutSeconds: 30,
			Workers:             4,
		},
		Output: OutputConfig{
			Workbook: "",
			Append:   false,
		},
		ActiveProfile: "rollup",
		Profiles:      DefaultProfiles(),
	}
	cfg.nameProfiles()
	return cfg
}

func (c *AppConfig) nameProfiles() {
	for name, p := range c.Profiles {
		if p != nil {
			p.Name = name
		}
	}
}

// Profile 按名称获取报表口径；name 为空时使用 active_profile
func (c *AppConfig) Profile(name string) (*Profile, error) {
	if name == "" {
		name = c.ActiveProfile
	}
	p, ok := c.Profiles[name]
	if !ok || p == nil {
		return nil, fmt.Errorf("unknown profile: %q", name)
	}
	return p, nil
}

// ProfileNames 全部口径名称（排序）
func (c *AppConfig) ProfileNames() []string {
	names := make([]string, 0, len(c.Profiles))
	for name := range c.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var validate = validator.New()

// Validate 校验配置
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	for _, name := range c.ProfileNames() {
		p := c.Profiles[name]
		if p == nil {
			return fmt.Errorf("invalid config: profile %q is empty", name)
		}
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("invalid profile %q: %w", name, err)
		}
	}
	if _, err := c.Profile(""); err != nil {
		return fmt.Errorf("invalid config: active_profile: %w", err)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// DefaultConfigPath 可执行文件同目录下的 config.toml
func DefaultConfigPath() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}
	return filepath.Join(exeDir, "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
// path 为空时读取可执行文件同目录下的 config.toml；文件不存在时使用默认配置
func LoadConfigWithInfo(path string) (*AppConfig, LoadConfigInfo, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	info := LoadConfigInfo{Path: path}
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			applyEnvOverrides(config)
			return config, info, config.Validate()
		}
		return nil, info, err
	}
	info.FromFile = true
	info.PortSpecified = isPortSpecifiedInToml(data)

	if err := decodeInto(config, data); err != nil {
		return nil, info, err
	}

	// 环境变量覆盖（用于 E2E / 本地运行）
	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

// decodeInto 解码 TOML；文件中出现的 profile 在同名默认口径基础上覆盖
func decodeInto(config *AppConfig, data []byte) error {
	var raw struct {
		Profiles map[string]map[string]any `toml:"profiles"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}

	defaults := config.Profiles
	config.Profiles = nil
	if err := toml.Unmarshal(data, config); err != nil {
		return err
	}

	merged := defaults
	for name := range raw.Profiles {
		base, ok := defaults[name]
		if !ok {
			base = DefaultProfiles()["rollup"]
		}
		section, err := toml.Marshal(raw.Profiles[name])
		if err != nil {
			return err
		}
		p := *base
		// 表类型字段整体替换，与列表字段一致
		if _, ok := raw.Profiles[name]["indicator_types"]; ok {
			p.IndicatorTypes = nil
		}
		if err := toml.Unmarshal(section, &p); err != nil {
			return fmt.Errorf("profile %q: %w", name, err)
		}
		merged[name] = &p
	}
	config.Profiles = merged
	config.nameProfiles()
	return nil
}

func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("SALESTRACK_SOURCE_WORKBOOK"); v != "" {
		config.Source.Workbook = v
	}
	if v := os.Getenv("SALESTRACK_OUTPUT_WORKBOOK"); v != "" {
		config.Output.Workbook = v
	}
	if v := os.Getenv("SALESTRACK_PROFILE"); v != "" {
		config.ActiveProfile = v
	}
}

// LoadConfig 加载配置
func LoadConfig(path string) (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo(path)
	return config, err
}

// SaveConfig 保存配置到指定路径
func SaveConfig(config *AppConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 相对路径的数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := config.Data.DataDir
	if !filepath.IsAbs(dataDir) {
		exeDir, err := GetExeDir()
		if err != nil {
			exeDir = "."
		}
		dataDir = filepath.Join(exeDir, dataDir)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 创建子目录
	subdirs := []string{"exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
